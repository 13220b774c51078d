package store

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/njchilds90/weierstrass"
)

var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
		}
		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
		}
		return dec
	},
}

func compress(data []byte) []byte {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil)
}

func decompress(data []byte) ([]byte, error) {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	return out, nil
}

// Key identifies an analysis by its inputs. Two calls with the same formula,
// interval and numeric options produce the same key, so a stored result can
// be reused.
func Key(formula string, a, b float64, o weierstrass.Options) string {
	d := xxhash.New()
	for _, part := range []string{
		formula,
		strconv.FormatFloat(a, 'g', -1, 64),
		strconv.FormatFloat(b, 'g', -1, 64),
		strconv.Itoa(o.ContinuitySamples),
		strconv.Itoa(o.ScanSamples),
		strconv.Itoa(o.BisectionIterations),
		strconv.FormatFloat(o.Tolerance, 'g', -1, 64),
	} {
		_, _ = d.WriteString(part)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
