package export

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-warden/internal/wm"
	"focus-warden/pkg/logger"
)

type signal struct {
	name   string
	values []interface{}
}

type fakeEmitter struct {
	signals []signal
	err     error
}

func (f *fakeEmitter) Emit(path dbus.ObjectPath, name string, values ...interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.signals = append(f.signals, signal{name: name, values: values})
	return nil
}

func TestActiveWindowChanged(t *testing.T) {
	em := &fakeEmitter{}
	e := New(em, logger.Nop())

	e.ActiveWindowChanged(&wm.Window{ID: "0x1", Class: "term"})
	id, class, derr := e.ActiveWindow()
	require.Nil(t, derr)
	assert.Equal(t, "0x1", id)
	assert.Equal(t, "term", class)

	e.ActiveWindowChanged(nil)
	id, _, _ = e.ActiveWindow()
	assert.Equal(t, "", id)

	require.Len(t, em.signals, 2)
	assert.Equal(t, Interface+".ActiveWindowChanged", em.signals[0].name)
	assert.Equal(t, []interface{}{"0x1", "term"}, em.signals[0].values)
	assert.Equal(t, []interface{}{"", ""}, em.signals[1].values)
}

func TestAttentionChanged(t *testing.T) {
	em := &fakeEmitter{}
	e := New(em, logger.Nop())
	a, b := &wm.Window{ID: "a"}, &wm.Window{ID: "b"}

	e.AttentionChanged(a, true)
	e.AttentionChanged(b, true)
	list, _ := e.Attention()
	assert.Equal(t, []string{"b", "a"}, list)

	e.AttentionChanged(a, true)
	list, _ = e.Attention()
	assert.Equal(t, []string{"a", "b"}, list)

	e.AttentionChanged(b, false)
	list, _ = e.Attention()
	assert.Equal(t, []string{"a"}, list)
	assert.Equal(t, []interface{}{"b", false}, em.signals[len(em.signals)-1].values)
}

func TestEmitFailureDisablesSignals(t *testing.T) {
	em := &fakeEmitter{err: errors.New("bus gone")}
	e := New(em, logger.Nop())

	e.ActiveWindowChanged(&wm.Window{ID: "a"})
	assert.True(t, e.disabled)

	em.err = nil
	e.ActiveWindowChanged(&wm.Window{ID: "b"})
	assert.Empty(t, em.signals)
	id, _, _ := e.ActiveWindow()
	assert.Equal(t, "b", id, "state is still tracked")
}
