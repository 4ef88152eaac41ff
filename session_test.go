package seek_test

import (
	"sync"
	"testing"

	"github.com/fwojciec/seek"
	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("empty until set", func(t *testing.T) {
		t.Parallel()
		s := seek.NewSession("")
		token, ok := s.Current()
		assert.False(t, ok)
		assert.Empty(t, token)
	})

	t.Run("seeded token", func(t *testing.T) {
		t.Parallel()
		s := seek.NewSession("resume-me")
		token, ok := s.Current()
		assert.True(t, ok)
		assert.Equal(t, "resume-me", token)
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()
		s := seek.NewSession("")
		s.Set("abc")
		s.Set("xyz")
		token, ok := s.Current()
		assert.True(t, ok)
		assert.Equal(t, "xyz", token)
	})

	t.Run("token is opaque", func(t *testing.T) {
		t.Parallel()
		s := seek.NewSession("")
		s.Set("")
		token, ok := s.Current()
		assert.True(t, ok)
		assert.Empty(t, token)
	})

	t.Run("concurrent use", func(t *testing.T) {
		t.Parallel()
		s := seek.NewSession("")
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Set("t")
				_, _ = s.Current()
			}()
		}
		wg.Wait()
		token, _ := s.Current()
		assert.Equal(t, "t", token)
	})
}
