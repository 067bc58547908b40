package milight

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Direction, bir datagramın yönünü belirtir.
type Direction int

const (
	Outbound Direction = iota // istemciden köprüye
	Inbound                   // köprüden istemciye
)

func (d Direction) String() string {
	if d == Inbound {
		return "<"
	}
	return ">"
}

// Datagram, kaydedilmiş tek bir UDP datagramıdır.
type Datagram struct {
	ConnID    string
	Direction Direction
	Data      []byte
	Timestamp time.Time
}

// Recorder, datagramları gob akışı olarak Dest'e yazar.
// Aynı Recorder birden fazla Bridge tarafından paylaşılabilir.
type Recorder struct {
	Dest io.Writer

	mu   sync.Mutex
	enc  *gob.Encoder
	once sync.Once
}

// Record, bir datagramı akışa ekler.
func (r *Recorder) Record(dg Datagram) error {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(dg)
}

func (r *Recorder) init() {
	r.once.Do(func() {
		r.enc = gob.NewEncoder(r.Dest)
	})
}

// ReadCapture, r'deki kayıtları sırayla out kanalına yazar ve akış bitince
// kanalı kapatır.
func ReadCapture(out chan<- Datagram, r io.Reader) error {
	defer close(out)

	dec := gob.NewDecoder(r)
	for {
		var dg Datagram
		if err := dec.Decode(&dg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("kayıt çözümlenemedi: %w", err)
		}

		out <- dg
	}
}
