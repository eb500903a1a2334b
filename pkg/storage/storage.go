// Package storage keeps filterbank records in a pebble database, keyed by
// KSUID and indexed by their text and integer header entries.
package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = fmt.Errorf("storage: record not found: %w", pebble.ErrNotFound)

var (
	recPrefix = []byte("rec/")
	refPrefix = []byte("ref/")
	idxPrefix = []byte("idx/")
)

// Archive stores encoded filterbank files.
//
// Layout:
//
//	rec/<id>                      file bytes
//	idx/<key>\x00<value>\x00<id>  one per text or integer header entry
//	ref/<id>                      the idx keys written for <id>, for Delete
type Archive struct {
	db *pebble.DB
}

// Open opens or creates an archive in dir.
func Open(dir string) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}
	return &Archive{db: db}, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Put encodes rec with opts and stores it under a new id.
func (a *Archive) Put(rec *filterbank.Record, opts filterbank.Options) (ksuid.KSUID, error) {
	if rec == nil || rec.Header == nil || rec.Data == nil {
		return ksuid.Nil, errors.New("storage: record needs both header and data")
	}
	b, err := filterbank.Marshal(rec.Data, rec.Header, opts)
	if err != nil {
		return ksuid.Nil, err
	}
	return a.store(b, rec.Header)
}

// PutBytes stores an already encoded filterbank file. The header is decoded
// with opts to build the index; decoding diagnostics are returned alongside.
func (a *Archive) PutBytes(b []byte, opts filterbank.Options) (ksuid.KSUID, []header.Diagnostic, error) {
	rec, diags, err := filterbank.ReadFrom(bytes.NewReader(b), opts, filterbank.HeaderOnly)
	if err != nil {
		return ksuid.Nil, diags, err
	}
	id, err := a.store(b, rec.Header)
	return id, diags, err
}

func (a *Archive) store(b []byte, h *header.Header) (ksuid.KSUID, error) {
	id := ksuid.New()

	batch := a.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(recordKey(id), b, nil); err != nil {
		return ksuid.Nil, err
	}
	var refs [][]byte
	for _, e := range h.Entries() {
		if header.IsSentinel(e.Key) {
			continue
		}
		if k := e.Value.Kind(); k != codec.KindText && k != codec.KindInteger {
			continue
		}
		key := indexKey(e.Key, e.Value.String(), id)
		if err := batch.Set(key, nil, nil); err != nil {
			return ksuid.Nil, err
		}
		refs = append(refs, key)
	}
	if err := batch.Set(refKey(id), encodeRefs(refs), nil); err != nil {
		return ksuid.Nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("storage: commit %s: %w", id, err)
	}
	return id, nil
}

// Bytes returns the stored file exactly as it was put.
func (a *Archive) Bytes(id ksuid.KSUID) ([]byte, error) {
	return a.get(recordKey(id))
}

// Get decodes the stored file with opts.
func (a *Archive) Get(id ksuid.KSUID, opts filterbank.Options) (*filterbank.Record, []header.Diagnostic, error) {
	return a.read(id, opts, filterbank.Both)
}

// Header decodes only the header of the stored file.
func (a *Archive) Header(id ksuid.KSUID, opts filterbank.Options) (*header.Header, []header.Diagnostic, error) {
	rec, diags, err := a.read(id, opts, filterbank.HeaderOnly)
	if err != nil {
		return nil, diags, err
	}
	return rec.Header, diags, nil
}

func (a *Archive) read(id ksuid.KSUID, opts filterbank.Options, sel filterbank.Selector) (*filterbank.Record, []header.Diagnostic, error) {
	b, err := a.Bytes(id)
	if err != nil {
		return nil, nil, err
	}
	rec, diags, err := filterbank.ReadFrom(bytes.NewReader(b), opts, sel)
	if err != nil {
		return nil, diags, fmt.Errorf("storage: decode %s: %w", id, err)
	}
	rec.Name = id.String()
	return rec, diags, nil
}

// Delete removes a record and its index entries.
func (a *Archive) Delete(id ksuid.KSUID) error {
	refs, err := a.get(refKey(id))
	if err != nil {
		return err
	}

	batch := a.db.NewBatch()
	defer batch.Close()

	keys, err := decodeRefs(refs)
	if err != nil {
		return fmt.Errorf("storage: corrupt index refs for %s: %w", id, err)
	}
	for _, key := range keys {
		if err := batch.Delete(key, nil); err != nil {
			return err
		}
	}
	if err := batch.Delete(refKey(id), nil); err != nil {
		return err
	}
	if err := batch.Delete(recordKey(id), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// List returns every record id, oldest first.
func (a *Archive) List() ([]ksuid.KSUID, error) {
	var ids []ksuid.KSUID
	err := a.scan(recPrefix, func(key []byte) error {
		id, err := ksuid.FromBytes(key[len(recPrefix):])
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

// Find returns the ids of records whose header has key set to value.
// Integers match their decimal rendering.
func (a *Archive) Find(key, value string) ([]ksuid.KSUID, error) {
	prefix := indexPrefix(key, value)
	var ids []ksuid.KSUID
	err := a.scan(prefix, func(k []byte) error {
		id, err := ksuid.FromBytes(k[len(prefix):])
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

func (a *Archive) scan(prefix []byte, fn func(key []byte) error) error {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (a *Archive) get(key []byte) ([]byte, error) {
	data, closer, err := a.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), data...), nil
}

func recordKey(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), recPrefix...), id.Bytes()...)
}

func refKey(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), refPrefix...), id.Bytes()...)
}

// indexPrefix is the composite key without the record id. Key and value
// are null terminated so one cannot run into the other.
func indexPrefix(key, value string) []byte {
	var buf bytes.Buffer
	buf.Write(idxPrefix)
	buf.WriteString(key)
	buf.WriteByte(0)
	buf.WriteString(value)
	buf.WriteByte(0)
	return buf.Bytes()
}

func indexKey(key, value string, id ksuid.KSUID) []byte {
	return append(indexPrefix(key, value), id.Bytes()...)
}

// encodeRefs writes each key with a uvarint length prefix.
func encodeRefs(keys [][]byte) []byte {
	var out []byte
	for _, k := range keys {
		out = binary.AppendUvarint(out, uint64(len(k)))
		out = append(out, k...)
	}
	return out
}

func decodeRefs(b []byte) ([][]byte, error) {
	var keys [][]byte
	for len(b) > 0 {
		n, w := binary.Uvarint(b)
		if w <= 0 || uint64(len(b)-w) < n {
			return nil, errors.New("truncated key")
		}
		b = b[w:]
		keys = append(keys, b[:n])
		b = b[n:]
	}
	return keys, nil
}

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
