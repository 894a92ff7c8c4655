//go:generate mockgen -package $GOPACKAGE -source $GOFILE -destination mock_receiver_test.go

package crate

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// receiver is the consuming side of DynamicBundle.Put.
type receiver interface {
	Receive(ptr unsafe.Pointer, info *TypeInfo)
}

func TestBuiltBundlePutVisitsEveryComponent(t *testing.T) {
	controller := gomock.NewController(t)

	b := Factory.NewBuilder()
	Add(b, int32(123))
	Add(b, "abc")
	Add(b, u8(9))

	mockReceiver := NewMockReceiver(controller)
	for _, info := range []*TypeInfo{TypeOf[int32](), TypeOf[string](), TypeOf[u8]()} {
		mockReceiver.EXPECT().Receive(gomock.Any(), info).Times(1)
	}

	b.Build().Put(mockReceiver.Receive)
	assert.Equal(t, 0, b.Len())
}

func TestBuiltBundlePutInIDOrder(t *testing.T) {
	controller := gomock.NewController(t)

	b := Factory.NewBuilder()
	Add(b, label("z"))
	Add(b, u16(1))
	Add(b, u32(2))
	bundle := b.Build()

	mockReceiver := NewMockReceiver(controller)
	var calls []any
	for _, info := range bundle.TypeInfos() {
		calls = append(calls, mockReceiver.EXPECT().Receive(gomock.Any(), info).Times(1))
	}
	gomock.InOrder(calls...)

	bundle.Put(mockReceiver.Receive)
}

func TestReusableBundlePutHandsOutCopies(t *testing.T) {
	controller := gomock.NewController(t)

	b := Factory.NewCloneableBuilder()
	AddCloneable(b, u64(77))
	bundle := b.Build()
	original, _ := bundle.lookup(TypeOf[u64]().ID())

	mockReceiver := NewMockReceiver(controller)
	mockReceiver.EXPECT().
		Receive(gomock.Any(), TypeOf[u64]()).
		Do(func(ptr unsafe.Pointer, _ *TypeInfo) {
			assert.NotEqual(t, original, ptr, "consumers must get a duplicate")
			assert.Equal(t, u64(77), *(*u64)(ptr))
		}).
		Times(3)

	for range 3 {
		bundle.Put(mockReceiver.Receive)
	}
}

func TestReleasedBundlePutsNothing(t *testing.T) {
	controller := gomock.NewController(t)

	b := Factory.NewBuilder()
	Add(b, u8(1))
	bundle := b.Build()
	bundle.Release()

	mockReceiver := NewMockReceiver(controller)
	mockReceiver.EXPECT().Receive(gomock.Any(), gomock.Any()).Times(0)
	bundle.Put(mockReceiver.Receive)
}
