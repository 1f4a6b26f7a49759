package kvstore

import "testing"

func TestMemoryStoreContract(t *testing.T) {
	runContract(t, NewMemoryStore())
}
