// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
)

// BlobEntry is the persisted shape of one stored blob: the raw bytes plus
// the content type and a content checksum used to detect redundant
// rewrites of identical data.
type BlobEntry struct {
	ContentType string
	Checksum    string
	Data        []byte
}

var (
	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
	byteSliceMUS    = ord.NewSliceSer[byte](raw.Byte)
)

// VectorEntryMUS serializes VectorEntry values for the vector index.
// The serializers are written by hand against the mus-go primitives since
// the persisted types are few and stable.
var VectorEntryMUS = vectorEntryMUS{}

type vectorEntryMUS struct{}

func (vectorEntryMUS) Marshal(v VectorEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += float32SliceMUS.Marshal(v.Values, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.Bool.Marshal(v.Relevant, bs[n:])
	return n
}

func (vectorEntryMUS) Unmarshal(bs []byte) (v VectorEntry, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Values, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Relevant, n1, err = ord.Bool.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (vectorEntryMUS) Size(v VectorEntry) (size int) {
	size = ord.String.Size(v.ID)
	size += float32SliceMUS.Size(v.Values)
	size += ord.String.Size(v.Category)
	size += ord.String.Size(v.Title)
	size += ord.Bool.Size(v.Relevant)
	return size
}

// BlobEntryMUS serializes BlobEntry values for the blob store.
var BlobEntryMUS = blobEntryMUS{}

type blobEntryMUS struct{}

func (blobEntryMUS) Marshal(v BlobEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ContentType, bs)
	n += ord.String.Marshal(v.Checksum, bs[n:])
	n += byteSliceMUS.Marshal(v.Data, bs[n:])
	return n
}

func (blobEntryMUS) Unmarshal(bs []byte) (v BlobEntry, n int, err error) {
	var n1 int
	if v.ContentType, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Checksum, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Data, n1, err = byteSliceMUS.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (blobEntryMUS) Size(v BlobEntry) (size int) {
	size = ord.String.Size(v.ContentType)
	size += ord.String.Size(v.Checksum)
	size += byteSliceMUS.Size(v.Data)
	return size
}

// MarshalVectorEntry serializes a VectorEntry to bytes.
func MarshalVectorEntry(entry *VectorEntry) []byte {
	buf := make([]byte, VectorEntryMUS.Size(*entry))
	VectorEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*VectorEntry, error) {
	entry, _, err := VectorEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalBlobEntry serializes a BlobEntry to bytes.
func MarshalBlobEntry(entry *BlobEntry) []byte {
	buf := make([]byte, BlobEntryMUS.Size(*entry))
	BlobEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalBlobEntry deserializes a BlobEntry from bytes.
func UnmarshalBlobEntry(data []byte) (*BlobEntry, error) {
	entry, _, err := BlobEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
