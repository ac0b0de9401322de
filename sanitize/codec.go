package sanitize

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/poiesic/matchmaker/storage"
)

var sliceStringMUS = ord.NewSliceSer[string](ord.String)

// sanitizedMUS serializes cached redactions. BioHash and CacheHit are
// derived on read and not stored.
var sanitizedMUS = sanitizedSer{}

type sanitizedSer struct{}

func (s sanitizedSer) Marshal(v Sanitized, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	return n + sliceStringMUS.Marshal(v.PIIRemoved, bs[n:])
}

func (s sanitizedSer) Unmarshal(bs []byte) (v Sanitized, n int, err error) {
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.PIIRemoved, n1, err = sliceStringMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s sanitizedSer) Size(v Sanitized) (size int) {
	size = ord.String.Size(v.Text)
	return size + sliceStringMUS.Size(v.PIIRemoved)
}

func (s sanitizedSer) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceStringMUS.Skip(bs[n:])
	n += n1
	return
}

func encodeSanitized(v *Sanitized) []byte {
	buf := make([]byte, sanitizedMUS.Size(*v))
	sanitizedMUS.Marshal(*v, buf)
	return buf
}

func decodeSanitized(data []byte) (*Sanitized, error) {
	v, n, err := sanitizedMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", storage.ErrSerializationFailed, len(data)-n)
	}
	return &v, nil
}
