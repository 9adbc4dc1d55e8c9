// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signature

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Tags used by the canonical byte encoding.
const (
	tagNil    byte = 0x00
	tagType   byte = 0x01
	tagField  byte = 0x02
	tagStruct byte = 0x03
)

// Equal reports whether a and b are structurally identical: same variant at
// every node, same leaf text, same field order. A nil slot equals only nil.
func Equal(a, b Signature) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Type:
		y, ok := b.(Type)
		return ok && x.value == y.value
	case Field:
		y, ok := b.(Field)
		return ok && Equal(x.name, y.name) && Equal(x.value, y.value)
	case Struct:
		y, ok := b.(Struct)
		if !ok || len(x.fields) != len(y.fields) || !Equal(x.name, y.name) {
			return false
		}
		for i := range x.fields {
			if !Equal(x.fields[i], y.fields[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Canonical returns the deterministic byte encoding of s. Each node is a tag
// byte followed by its payload; strings and member counts are uvarint
// length-prefixed. Two trees are Equal iff their canonical encodings match.
func Canonical(s Signature) []byte {
	return appendCanonical(nil, s)
}

func appendCanonical(dst []byte, s Signature) []byte {
	switch v := s.(type) {
	case Type:
		dst = append(dst, tagType)
		dst = binary.AppendUvarint(dst, uint64(len(v.value)))
		return append(dst, v.value...)
	case Field:
		dst = append(dst, tagField)
		dst = appendCanonical(dst, v.name)
		return appendCanonical(dst, v.value)
	case Struct:
		dst = append(dst, tagStruct)
		dst = appendCanonical(dst, v.name)
		dst = binary.AppendUvarint(dst, uint64(len(v.fields)))
		for _, f := range v.fields {
			dst = appendCanonical(dst, f)
		}
		return dst
	default:
		return append(dst, tagNil)
	}
}

// Hash returns a 64-bit content hash of s, consistent with Equal.
func Hash(s Signature) uint64 {
	return xxhash.Sum64(Canonical(s))
}

// Digest returns a CIDv1 (raw codec, sha2-256 multihash) of the canonical
// encoding of s. It is stable across processes and suitable for persisting
// alongside a serialized signature.
func Digest(s Signature) (string, error) {
	sum, err := multihash.Sum(Canonical(s), multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}
