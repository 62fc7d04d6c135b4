package deps

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/atlas/internal/cache"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/internal/sanitizer"
	"github.com/joefazee/atlas/internal/security"
)

func TestContainer_Registry(t *testing.T) {
	c := NewContainer(nil, &security.MockMaker{}, sanitizer.NewHTMLStripper(),
		logger.NewNullLogger(), cache.NewMemoryCache[string]())

	assert.Nil(t, c.GetService("missing"))
	assert.Nil(t, c.GetRepository("missing"))

	c.RegisterService("svc", "service")
	c.RegisterRepository("repo", 7)

	assert.Equal(t, "service", c.GetService("svc"))
	assert.Equal(t, 7, c.GetRepository("repo"))
}

func TestContainer_TypedLookup(t *testing.T) {
	c := NewContainer(nil, &security.MockMaker{}, sanitizer.NewHTMLStripper(),
		logger.NewNullLogger(), cache.NewMemoryCache[string]())
	defer c.Close()

	c.RegisterService("greeter", fmt.Stringer(stringer("hi")))

	s, err := Service[fmt.Stringer](c, "greeter")
	require.NoError(t, err)
	assert.Equal(t, "hi", s.String())

	_, err = Service[error](c, "greeter")
	assert.ErrorContains(t, err, "is deps.stringer")

	_, err = Repository[fmt.Stringer](c, "missing")
	assert.ErrorContains(t, err, `repository "missing" is not registered`)
}

func TestContainer_Close(t *testing.T) {
	c := NewContainer(nil, &security.MockMaker{}, sanitizer.NewHTMLStripper(),
		logger.NewNullLogger(), cache.NewMemoryCache[string]())

	var order []int
	c.OnClose(func() error { order = append(order, 1); return nil })
	c.OnClose(func() error { order = append(order, 2); return errors.New("boom") })

	err := c.Close()
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []int{2, 1}, order)

	// closers only run once
	assert.NoError(t, c.Close())
}

type stringer string

func (s stringer) String() string { return string(s) }
