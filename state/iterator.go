// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package state

import (
	"context"
	"sync"
)

// Entry is an element of a streamed key/value sequence.
type Entry struct {
	Key   string
	Value []byte
}

// Stream is the producing end of a sequence computed by a background
// goroutine. Entries pass through a bounded channel; a full channel blocks
// the producer until the consumer catches up.
type Stream struct {
	entries chan Entry
	err     error // written before entries is closed
}

// NewStream creates a stream buffering up to size entries.
func NewStream(size int) *Stream {
	return &Stream{entries: make(chan Entry, size)}
}

// Send delivers the given entry, blocking while the buffer is full. It
// returns false if ctx got cancelled before the entry could be delivered.
func (s *Stream) Send(ctx context.Context, entry Entry) bool {
	select {
	case s.entries <- entry:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close ends the sequence. A nil error marks the sequence as complete, any
// other error is reported to the consumer after the entries sent before.
// Close must be called exactly once, by the producer.
func (s *Stream) Close(err error) {
	s.err = err
	close(s.entries)
}

// Iterator provides the consuming end of the stream. Releasing the iterator
// calls cancel, which must signal the producer to stop.
func (s *Stream) Iterator(cancel context.CancelFunc) Iterator {
	return &channelIterator{stream: s, cancel: cancel}
}

type channelIterator struct {
	stream  *Stream
	cancel  context.CancelFunc
	current Entry
	err     error
	done    bool
	once    sync.Once
}

func (i *channelIterator) Next() bool {
	if i.done {
		return false
	}
	entry, ok := <-i.stream.entries
	if !ok {
		// the close of the channel publishes the outcome of the producer
		i.finish(i.stream.err)
		return false
	}
	i.current = entry
	return true
}

func (i *channelIterator) finish(err error) {
	i.done = true
	i.err = err
	i.current = Entry{}
}

func (i *channelIterator) Key() string   { return i.current.Key }
func (i *channelIterator) Value() []byte { return i.current.Value }
func (i *channelIterator) Error() error  { return i.err }

func (i *channelIterator) Release() {
	i.once.Do(func() {
		if !i.done {
			i.finish(nil)
		}
		i.cancel()
	})
}

// errorIterator is an empty sequence failing with a fixed error.
type errorIterator struct {
	err error
}

func (i errorIterator) Next() bool    { return false }
func (i errorIterator) Key() string   { return "" }
func (i errorIterator) Value() []byte { return nil }
func (i errorIterator) Error() error  { return i.err }
func (i errorIterator) Release()      {}

// mergeIterator overlays pending changes on a base sequence. A pending value
// replaces the base entry of the same key, a pending deletion suppresses it.
type mergeIterator struct {
	base      Iterator
	baseReady bool // base is positioned on an element not consumed yet
	baseDone  bool
	pending   []Change[string]
	key       string
	value     []byte
	err       error
}

func newMergeIterator(base Iterator, pending []Change[string]) Iterator {
	if len(pending) == 0 {
		return base
	}
	return &mergeIterator{base: base, pending: pending}
}

func (m *mergeIterator) Next() bool {
	m.key, m.value = "", nil
	if m.err != nil {
		return false
	}
	for {
		if !m.baseReady && !m.baseDone {
			if m.base.Next() {
				m.baseReady = true
			} else {
				m.baseDone = true
				if err := m.base.Error(); err != nil {
					m.err = err
					return false
				}
			}
		}

		if len(m.pending) == 0 {
			if !m.baseReady {
				return false
			}
			m.key, m.value = m.base.Key(), m.base.Value()
			m.baseReady = false
			return true
		}

		change := m.pending[0]
		if m.baseReady && m.base.Key() < change.Key {
			m.key, m.value = m.base.Key(), m.base.Value()
			m.baseReady = false
			return true
		}

		m.pending = m.pending[1:]
		if m.baseReady && m.base.Key() == change.Key {
			m.baseReady = false
		}
		if change.Deleted() {
			continue
		}
		m.key, m.value = change.Key, change.Value
		return true
	}
}

func (m *mergeIterator) Key() string   { return m.key }
func (m *mergeIterator) Value() []byte { return m.value }
func (m *mergeIterator) Error() error  { return m.err }

func (m *mergeIterator) Release() {
	m.pending = nil
	m.baseReady = false
	m.baseDone = true
	m.base.Release()
}
