package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/registry"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	r := registry.NewRegistry()

	_, ok := r.Lookup("Person")
	assert.False(t, ok, "unregistered kind should be unmanaged")

	r.Register("Person", schema.Schema{{Name: "name", Type: schema.String()}})

	s, ok := r.Lookup("Person")
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, s.Names())
}

func TestRegistry_Overwrite(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("Person", schema.Schema{{Name: "name", Type: schema.String()}})
	r.Register("Person", schema.Schema{{Name: "age", Type: schema.Number()}})

	s, ok := r.Lookup("Person")
	require.True(t, ok)
	assert.Equal(t, []string{"age"}, s.Names())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_KindsAndUnregister(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("Person", schema.Schema{})
	r.Register("Company", schema.Schema{})
	r.Register("Address", schema.Schema{})

	assert.Equal(t, []string{"Address", "Company", "Person"}, r.Kinds())

	r.Unregister("Company")
	_, ok := r.Lookup("Company")
	assert.False(t, ok)
	assert.Equal(t, []string{"Address", "Person"}, r.Kinds())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := registry.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Register(fmt.Sprintf("Kind%d", i%5), schema.Schema{})
		}(i)
		go func(i int) {
			defer wg.Done()
			r.Lookup(fmt.Sprintf("Kind%d", i%5))
			r.Kinds()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, r.Len())
}
