package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStars(t *testing.T) {
	auth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		assert.Equal(t, "/repos/owner/repo", r.URL.Path)
		fmt.Fprint(w, `{"name":"repo","stargazers_count":42}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/repos/owner/repo", func(o *Options) { o.Token = "secret" })
	assert.Equal(t, 42, c.Stars(context.Background()))
	assert.Equal(t, "Bearer secret", <-auth)
}

func TestStars_NoToken(t *testing.T) {
	auth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/repos/owner/repo")
	assert.Equal(t, 0, c.Stars(context.Background()))
	assert.Empty(t, <-auth)
}

func TestStars_FailuresYieldZero(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer notFound.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer garbage.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	cases := map[string]*Client{
		"non-2xx":      NewClient(notFound.URL + "/repos/o/r"),
		"bad body":     NewClient(garbage.URL + "/repos/o/r"),
		"timeout":      NewClient(slow.URL+"/repos/o/r", func(o *Options) { o.Timeout = 50 * time.Millisecond }),
		"unreachable":  NewClient(closedURL + "/repos/o/r"),
		"not repo url": NewClient("https://api.github.com/users/octocat"),
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0, c.Stars(context.Background()))
			_, err := c.FetchStars(context.Background())
			require.Error(t, err)
		})
	}
}
