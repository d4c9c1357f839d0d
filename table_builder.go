package pcgbreaker

import (
	"bufio"
	"os"
	"runtime"
	"sort"
	"sync"
)

// BuildTable writes the precomputed table described in SPEC_FULL.md §4.2 to
// path. It has no inputs beyond the fixed zeta range, no clock reads and no
// randomness, so two runs in an identical environment produce byte-identical
// files (spec.md §8, property 6).
//
// The zetaCount records are computed in parallel shards (one per
// GOMAXPROCS), since each record is a pure function of its own zeta
// (spec.md §5 explicitly allows this). Shards are then merged into
// bucketCount buckets and written out back to back, each preceded by its
// record count, with an offset table up front so the reader can seek to any
// bucket in O(1).
func BuildTable(path string) (err error) {
	buckets, err := buildBuckets(0, zetaCount)
	if err != nil {
		return err
	}
	return writeTableFile(path, buckets)
}

// writeTableFile serializes buckets to path in the on-disk layout
// OpenTable/Lookup expect. It is split out from BuildTable so tests can
// exercise the file format against a handful of synthetic buckets instead
// of the full zetaCount build.
func writeTableFile(path string, buckets [][]tableRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return newBreakerError(KindIOFailure, "create table file", err)
	}
	success := false
	defer func() {
		cerr := f.Close()
		if !success {
			os.Remove(path) // no partial file retained on failure
		} else if cerr != nil && err == nil {
			err = newBreakerError(KindIOFailure, "close table file", cerr)
		}
	}()

	w := bufio.NewWriterSize(f, 4<<20)

	var recordCount uint32
	for _, b := range buckets {
		recordCount += uint32(len(b))
	}

	header := tableHeader{
		Version:     tableVersion,
		RecordWidth: recordWidth,
		BucketCount: bucketCount,
		RecordCount: recordCount,
	}
	copy(header.Magic[:], tableMagic)
	if _, err = w.Write(header.encode()); err != nil {
		return newBreakerError(KindIOFailure, "write table header", err)
	}

	offsets := computeOffsets(buckets)
	offsetBuf := make([]byte, 8)
	for _, off := range offsets {
		putUint64LE(offsetBuf, off)
		if _, err = w.Write(offsetBuf); err != nil {
			return newBreakerError(KindIOFailure, "write offset table", err)
		}
	}

	countBuf := make([]byte, 4)
	recBuf := make([]byte, recordWidth)
	for _, b := range buckets {
		putUint32LE(countBuf, uint32(len(b)))
		if _, err = w.Write(countBuf); err != nil {
			return newBreakerError(KindIOFailure, "write bucket count", err)
		}
		for _, rec := range b {
			putUint64LE(recBuf, uint64(rec))
			if _, err = w.Write(recBuf); err != nil {
				return newBreakerError(KindIOFailure, "write bucket record", err)
			}
		}
	}

	if err = w.Flush(); err != nil {
		return newBreakerError(KindIOFailure, "flush table file", err)
	}
	success = true
	return nil
}

// buildBuckets computes buildRecord for every zeta in [rangeStart, rangeEnd)
// and groups the results by key17(n), i.e. by the top 17 bits of their n
// value. Within a bucket, records are sorted by their full n value so the
// reader can binary-search or linear-scan for an exact match. BuildTable
// always calls this with the full [0, zetaCount) range; tests call it with a
// small range to exercise the exact sharding/merge path BuildTable runs
// without paying for the full zetaCount build.
func buildBuckets(rangeStart, rangeEnd uint64) ([][]tableRecord, error) {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	span := rangeEnd - rangeStart
	if uint64(workers) > span {
		workers = int(span)
	}
	if workers < 1 {
		workers = 1
	}
	shardBuckets := make([][][]tableRecord, workers)

	var wg sync.WaitGroup
	shardSize := span / uint64(workers)
	for w := 0; w < workers; w++ {
		start := rangeStart + uint64(w)*shardSize
		end := start + shardSize
		if w == workers-1 {
			end = rangeEnd
		}
		wg.Add(1)
		go func(w int, start, end uint64) {
			defer wg.Done()
			shardBuckets[w] = bucketRange(start, end)
		}(w, start, end)
	}
	wg.Wait()

	return mergeBucketShards(shardBuckets), nil
}

// bucketRange computes buildRecord for every zeta in [start, end) and groups
// the results by key17(n), unsorted. It is the sequential unit of work a
// buildBuckets shard performs, pulled out on its own so it can be exercised
// at a scale smaller than the full zetaCount.
func bucketRange(start, end uint64) [][]tableRecord {
	local := make([][]tableRecord, bucketCount)
	for zeta := start; zeta < end; zeta++ {
		rec := buildRecord(zeta)
		k := key17(rec.n())
		local[k] = append(local[k], rec)
	}
	return local
}

// mergeBucketShards concatenates each bucket across every shard and sorts it
// by full n value, so the reader can scan a bucket for an exact match.
func mergeBucketShards(shards [][][]tableRecord) [][]tableRecord {
	merged := make([][]tableRecord, bucketCount)
	for k := 0; k < bucketCount; k++ {
		var total int
		for _, shard := range shards {
			total += len(shard[k])
		}
		bucket := make([]tableRecord, 0, total)
		for _, shard := range shards {
			bucket = append(bucket, shard[k]...)
		}
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].n() < bucket[j].n() })
		merged[k] = bucket
	}
	return merged
}

// computeOffsets returns bucketCount+1 byte offsets, relative to the start
// of the bucket region, where offsets[i] is where bucket i begins and
// offsets[bucketCount] is the end of the file's bucket region.
func computeOffsets(buckets [][]tableRecord) []uint64 {
	offsets := make([]uint64, bucketCount+1)
	var cur uint64
	for i, b := range buckets {
		offsets[i] = cur
		cur += 4 + uint64(len(b))*recordWidth // bucket count prefix + records
	}
	offsets[bucketCount] = cur
	return offsets
}

func putUint64LE(buf []byte, v uint64) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	buf[4] = byte(v >> 32)
	buf[5] = byte(v >> 40)
	buf[6] = byte(v >> 48)
	buf[7] = byte(v >> 56)
}

func putUint32LE(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}
