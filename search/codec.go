package search

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

var rankedMUS = ord.NewSliceSer[core.RankedCommunity](core.RankedCommunityMUS)

// resultMUS serializes cached results. CacheHit is not stored.
var resultMUS = resultSer{}

type resultSer struct{}

func (s resultSer) Marshal(v Result, bs []byte) (n int) {
	n = rankedMUS.Marshal(v.Matches, bs)
	n += ord.Bool.Marshal(v.Fallback, bs[n:])
	return n + varint.Int.Marshal(v.CandidateCount, bs[n:])
}

func (s resultSer) Unmarshal(bs []byte) (v Result, n int, err error) {
	v.Matches, n, err = rankedMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Fallback, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CandidateCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s resultSer) Size(v Result) (size int) {
	size = rankedMUS.Size(v.Matches)
	size += ord.Bool.Size(v.Fallback)
	return size + varint.Int.Size(v.CandidateCount)
}

func (s resultSer) Skip(bs []byte) (n int, err error) {
	n, err = rankedMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

func encodeResult(r *Result) []byte {
	buf := make([]byte, resultMUS.Size(*r))
	resultMUS.Marshal(*r, buf)
	return buf
}

func decodeResult(data []byte) (*Result, error) {
	r, n, err := resultMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", storage.ErrSerializationFailed, len(data)-n)
	}
	return &r, nil
}
