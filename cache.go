// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"

	"github.com/unixdj/qrencode/coding"
)

// Kinds of cached encodings.
const (
	textKind byte = iota
	binaryKind
	mixedKind
)

type cacheEntry struct {
	kind    byte
	o       Options
	payload string
	code    *Code
}

// A Cache remembers recently encoded codes.  It holds at most the
// number of entries given to NewCache, evicting the oldest first.
// A Cache is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	max   int
	m     map[uint64]*cacheEntry
	order []uint64 // keys from oldest to newest
	hits  int
}

// NewCache returns a cache holding up to n codes.
// NewCache panics if n < 1.
func NewCache(n int) *Cache {
	if n < 1 {
		panic("qr: invalid cache size")
	}
	return &Cache{max: n, m: make(map[uint64]*cacheEntry, n)}
}

// cacheKey hashes the kind, options and payload of an encoding.
func cacheKey(kind byte, o Options, payload string) uint64 {
	var b [1 + 4*8 + 2]byte
	b[0] = kind
	for i, v := range [...]int{
		int(o.Level), int(o.MinVersion), int(o.MaxVersion), int(o.Mask),
	} {
		binary.LittleEndian.PutUint64(b[1+8*i:], uint64(v))
	}
	if o.ForceMask {
		b[len(b)-2] = 1
	}
	if o.Boost {
		b[len(b)-1] = 1
	}
	d := xxhash.New()
	d.Write(b[:])
	d.Write([]byte(payload))
	return d.Sum64()
}

// get returns a copy of the cached code, or encodes it with enc and
// stores the result.  Errors are not cached.
func (c *Cache) get(kind byte, o Options, payload string, enc func() (*Code, error)) (*Code, error) {
	if !o.ForceMask {
		o.Mask = coding.AutoMask
	}
	key := cacheKey(kind, o, payload)
	c.mu.Lock()
	e, ok := c.m[key]
	if ok && e.kind == kind && e.o == o && e.payload == payload {
		c.hits++
		c.mu.Unlock()
		return e.code.clone(), nil
	}
	c.mu.Unlock()

	code, err := enc()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[key]; !ok {
		if len(c.order) >= c.max {
			delete(c.m, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, key)
	}
	c.m[key] = &cacheEntry{kind, o, payload, code.clone()}
	return code, nil
}

// clone returns a copy of c sharing the bitmap, which codes never
// modify in place.
func (c *Code) clone() *Code {
	cc := *c
	return &cc
}

// EncodeText is like the package function EncodeText, but consults
// the cache first.
func (c *Cache) EncodeText(text string, o Options) (*Code, error) {
	return c.get(textKind, o, text, func() (*Code, error) {
		return EncodeText(text, o)
	})
}

// EncodeBinary is like the package function EncodeBinary, but
// consults the cache first.
func (c *Cache) EncodeBinary(data []byte, o Options) (*Code, error) {
	return c.get(binaryKind, o, string(data), func() (*Code, error) {
		return EncodeBinary(data, o)
	})
}

// EncodeMixed is like the package function EncodeMixed, but consults
// the cache first.
func (c *Cache) EncodeMixed(text string, o Options) (*Code, error) {
	return c.get(mixedKind, o, text, func() (*Code, error) {
		return EncodeMixed(text, o)
	})
}

// Len returns the number of cached codes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Hits returns the number of lookups answered from the cache.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
