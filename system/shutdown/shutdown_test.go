package shutdown

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	prev := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		exit = prev
		hooks = nil
	})
	return &code
}

func TestShutdownRunsHooksInReverse(t *testing.T) {
	code := captureExit(t)
	var order []string
	OnShutdown(func() { order = append(order, "db") })
	OnShutdown(func() { order = append(order, "metrics") })

	Shutdown()

	assert.Equal(t, 0, *code)
	assert.Equal(t, []string{"metrics", "db"}, order)
}

func TestShutdownWithError(t *testing.T) {
	code := captureExit(t)
	ran := 0
	OnShutdown(func() { ran++ })

	ShutdownWithError(errors.New("boom"), "Translation failed")
	assert.Equal(t, 1, *code)
	assert.Equal(t, 1, ran)

	Shutdown()
	assert.Equal(t, 1, ran, "hooks run once")
}
