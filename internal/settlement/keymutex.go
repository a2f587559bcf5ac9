package settlement

import "sync"

// KeyMutex memberi mutual exclusion per device ID. Semua mutasi saldo
// untuk satu device diserialisasi lewat sini; device berbeda tidak
// saling menunggu. Entry dihapus lagi saat tidak ada yang memegang,
// jadi map-nya tidak tumbuh mengikuti jumlah device.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[uint]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{entries: make(map[uint]*lockEntry)}
}

func (k *KeyMutex) Lock(key uint) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &lockEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

func (k *KeyMutex) Unlock(key uint) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("settlement: unlock untuk key yang tidak di-lock")
	}
	entry.refs--
	if entry.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	entry.mu.Unlock()
}
