package crate

import (
	"reflect"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	type sample struct {
		a uint16
		b []byte
	}

	info := TypeOf[sample]()
	assert.Same(t, info, TypeOf[sample](), "descriptors are canonical")
	assert.Equal(t, reflect.TypeFor[sample](), info.Type())
	assert.Equal(t, uintptr(32), info.Size())
	assert.Equal(t, uintptr(8), info.Align())
	assert.True(t, info.HasPointers())
	assert.NotNil(t, info.Component())

	got, ok := LookupTypeInfo(info.ID())
	require.True(t, ok)
	assert.Same(t, info, got)

	assert.NotEqual(t, TypeOf[u8]().ID(), TypeOf[u16]().ID())
	assert.Contains(t, info.String(), "sample")
}

func TestTypeOfRegisteredSkipsLock(t *testing.T) {
	want := TypeOf[u32]()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	done := make(chan *TypeInfo, 1)
	go func() {
		done <- TypeOf[u32]()
	}()
	select {
	case got := <-done:
		assert.Same(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("TypeOf blocked on the registration lock for a known type")
	}

	got, ok := LookupTypeInfo(want.ID())
	require.True(t, ok)
	assert.Same(t, want, got)
}

func TestLookupTypeInfoUnknown(t *testing.T) {
	_, ok := LookupTypeInfo(ComponentID(DefaultMaxComponentTypes + 1))
	assert.False(t, ok)
}

func TestHasPointers(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"int", reflect.TypeFor[int](), false},
		{"array of bytes", reflect.TypeFor[[16]byte](), false},
		{"empty array of strings", reflect.TypeFor[[0]string](), false},
		{"string", reflect.TypeFor[string](), true},
		{"slice", reflect.TypeFor[[]int](), true},
		{"map", reflect.TypeFor[map[int]int](), true},
		{"func", reflect.TypeFor[func()](), true},
		{"interface", reflect.TypeFor[any](), true},
		{"flat struct", reflect.TypeFor[mixed](), false},
		{"nested pointer", reflect.TypeFor[struct{ p [2]*int }](), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasPointers(tt.typ))
		})
	}
}

func TestTypeInfoDrop(t *testing.T) {
	log := &dropLog{}
	value := tracked[tagA]{value: 3, log: log}

	TypeOf[tracked[tagA]]().Drop(unsafe.Pointer(&value))
	assert.Equal(t, []int{3}, log.dropped)
	assert.Zero(t, value, "dropped values are zeroed")

	plain := u64(5)
	TypeOf[u64]().Drop(unsafe.Pointer(&plain))
	assert.Zero(t, plain)
}

func TestComponentLimit(t *testing.T) {
	type overflow struct{ _ [7]byte }

	Config.SetMaxComponentTypes(0)
	defer Config.SetMaxComponentTypes(DefaultMaxComponentTypes)

	defer func() {
		r := recover()
		require.NotNil(t, r, "registering past the limit must panic")
		var limitErr ComponentLimitError
		require.IsType(t, limitErr, r)
	}()
	TypeOf[overflow]()
}
