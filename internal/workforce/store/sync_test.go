package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two stores on the same Redis act like two independent app instances.
// A write on one must show up on the other's mirror without polling.
func TestMirror_CrossInstanceSync(t *testing.T) {
	client1, mr := setupTestRedis(t)
	client2 := newClientFor(t, mr.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writer := New(NewRedisKV(client1)).Scoped("owner-1")
	reader := New(NewRedisKV(client2)).Scoped("owner-1")

	mirror, err := NewMirror(ctx, reader)
	require.NoError(t, err)
	assert.Empty(t, mirror.Employees())

	// give the subscriber a moment to attach
	time.Sleep(50 * time.Millisecond)

	_, err = writer.AddEmployee(ctx, AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(mirror.Employees()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Anna", mirror.Employees()[0].Name)
}

// The last write to a key wins wholesale. There is no merging of
// concurrent document versions.
func TestStore_LastWriteWins(t *testing.T) {
	client1, mr := setupTestRedis(t)
	client2 := newClientFor(t, mr.Addr())
	ctx := context.Background()

	a := New(NewRedisKV(client1)).Scoped("owner-1")
	b := New(NewRedisKV(client2)).Scoped("owner-1")

	_, err := a.AddEmployee(ctx, AddEmployeeInput{Name: "From A"})
	require.NoError(t, err)

	// b read the document before a's write landed; its save replaces it
	require.NoError(t, b.SaveEmployees(ctx, nil))

	list, err := a.LoadEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// A write through one KV must not trigger its own subscription, only
// everyone else's.
func TestRedisKV_OriginExcluded(t *testing.T) {
	client1, mr := setupTestRedis(t)
	client2 := newClientFor(t, mr.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv1 := NewRedisKV(client1)
	kv2 := NewRedisKV(client2)

	self := make(chan string, 4)
	other := make(chan string, 4)
	require.NoError(t, kv1.Subscribe(ctx, func(key string) { self <- key }))
	require.NoError(t, kv2.Subscribe(ctx, func(key string) { other <- key }))

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, kv1.Set(ctx, "ks:owner-1:employees:v2", "[]"))

	select {
	case key := <-other:
		assert.Equal(t, "ks:owner-1:employees:v2", key)
	case <-time.After(2 * time.Second):
		t.Fatal("peer never saw the change")
	}

	select {
	case <-self:
		t.Fatal("writer saw its own change")
	case <-time.After(100 * time.Millisecond):
	}
}
