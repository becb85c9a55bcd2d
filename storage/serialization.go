// Copyright 2025 Poiesic Systems
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
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/ingrid/core"
)

// Hand-written MUS serializers for the domain types. The model set is small
// and stable, so the serializers are maintained by hand instead of a
// generation step.

var (
	stringSliceSer = ord.NewSliceSer[string](ord.String)
	float32Slice   = ord.NewSliceSer[float32](varint.Float32)
	stringMapSer   = ord.NewMapSer[string, string](ord.String, ord.String)
)

// zeroTimeMark encodes time.Time's zero value, which has no meaningful
// UnixMicro representation.
const zeroTimeMark = int64(math.MinInt64)

func marshalTime(t time.Time, bs []byte) int {
	v := zeroTimeMark
	if !t.IsZero() {
		v = t.UnixMicro()
	}
	return varint.Int64.Marshal(v, bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	if v == zeroTimeMark {
		return time.Time{}, n, nil
	}
	return time.UnixMicro(v).UTC(), n, nil
}

// unmarshalStringMap decodes a string map, normalizing empty to nil so a
// round trip preserves the common nil-map case.
func unmarshalStringMap(bs []byte) (map[string]string, int, error) {
	m, n, err := stringMapSer.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if len(m) == 0 {
		return nil, n, nil
	}
	return m, n, nil
}

func sizeTime(t time.Time) int {
	v := zeroTimeMark
	if !t.IsZero() {
		v = t.UnixMicro()
	}
	return varint.Int64.Size(v)
}

// idSer serializes core.ID as a varint.
type idSer struct{}

// IDMUS is the MUS serializer for core.ID.
var IDMUS = idSer{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// ingredientSer serializes core.Ingredient field by field, in declaration
// order. Extending the struct means extending all four methods.
type ingredientSer struct{}

// IngredientMUS is the MUS serializer for core.Ingredient.
var IngredientMUS = ingredientSer{}

func (ingredientSer) Marshal(v core.Ingredient, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	for _, s := range []string{
		v.Code, v.TradeName, v.INCIName, v.Supplier, v.Company,
		v.Cost, v.Benefits, v.Details, v.Category, v.Function,
	} {
		n += ord.String.Marshal(s, bs[n:])
	}
	n += stringMapSer.Marshal(v.Localized, bs[n:])
	n += stringMapSer.Marshal(v.Extra, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (ingredientSer) Unmarshal(bs []byte) (v core.Ingredient, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	for _, field := range []*string{
		&v.Code, &v.TradeName, &v.INCIName, &v.Supplier, &v.Company,
		&v.Cost, &v.Benefits, &v.Details, &v.Category, &v.Function,
	} {
		if *field, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return v, n + m, err
		}
		n += m
	}
	if v.Localized, m, err = unmarshalStringMap(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Extra, m, err = unmarshalStringMap(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.InsertedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.UpdatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (ingredientSer) Size(v core.Ingredient) (size int) {
	size = IDMUS.Size(v.Id)
	for _, s := range []string{
		v.Code, v.TradeName, v.INCIName, v.Supplier, v.Company,
		v.Cost, v.Benefits, v.Details, v.Category, v.Function,
	} {
		size += ord.String.Size(s)
	}
	size += stringMapSer.Size(v.Localized)
	size += stringMapSer.Size(v.Extra)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

func (s ingredientSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// chunkSer serializes core.Chunk field by field, in declaration order.
type chunkSer struct{}

// ChunkMUS is the MUS serializer for core.Chunk.
var ChunkMUS = chunkSer{}

func (chunkSer) Marshal(v core.Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.IngredientId, bs[n:])
	n += ord.String.Marshal(v.Code, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += stringSliceSer.Marshal(v.SourceFields, bs[n:])
	n += varint.Int.Marshal(int(v.Type), bs[n:])
	n += varint.Float32.Marshal(v.Priority, bs[n:])
	n += varint.Int.Marshal(v.CharCount, bs[n:])
	n += varint.Int.Marshal(v.SplitIndex, bs[n:])
	n += ord.Bool.Marshal(v.IsSplit, bs[n:])
	n += float32Slice.Marshal(v.Vector, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (chunkSer) Unmarshal(bs []byte) (v core.Chunk, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.IngredientId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	for _, field := range []*string{&v.Code, &v.Category, &v.Text} {
		if *field, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return v, n + m, err
		}
		n += m
	}
	if v.SourceFields, m, err = stringSliceSer.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	var chunkType int
	if chunkType, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Type = core.ChunkType(chunkType)
	n += m
	if v.Priority, m, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CharCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.SplitIndex, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.IsSplit, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Vector, m, err = float32Slice.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.InsertedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.UpdatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (chunkSer) Size(v core.Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.IngredientId)
	size += ord.String.Size(v.Code)
	size += ord.String.Size(v.Category)
	size += ord.String.Size(v.Text)
	size += stringSliceSer.Size(v.SourceFields)
	size += varint.Int.Size(int(v.Type))
	size += varint.Float32.Size(v.Priority)
	size += varint.Int.Size(v.CharCount)
	size += varint.Int.Size(v.SplitIndex)
	size += ord.Bool.Size(v.IsSplit)
	size += float32Slice.Size(v.Vector)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

func (s chunkSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalIngredient serializes an Ingredient to bytes.
func MarshalIngredient(ingredient *core.Ingredient) []byte {
	buf := make([]byte, IngredientMUS.Size(*ingredient))
	IngredientMUS.Marshal(*ingredient, buf)
	return buf
}

// UnmarshalIngredient deserializes an Ingredient from bytes.
func UnmarshalIngredient(data []byte) (*core.Ingredient, error) {
	ingredient, _, err := IngredientMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &ingredient, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, ChunkMUS.Size(*chunk))
	ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &chunk, nil
}
