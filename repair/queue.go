package repair

// The priority queue is an array of buckets indexed by frequency, each an
// unordered list of pair keys, with a cursor on the maximum non-empty bucket.
// Entries are lazy: a pair's frequency may have changed since it was pushed,
// so popped keys are validated against the live record and relocated or
// dropped as needed. Pushing can raise the cursor, popping lowers it past
// empty buckets.

// pushBucket queues key at frequency f.
func (e *Engine[T]) pushBucket(key pairKey, f uint32) {
	for int(f) >= len(e.buckets) {
		e.buckets = append(e.buckets, nil)
	}
	e.buckets[f] = append(e.buckets[f], key)
	if int(f) > e.maxFreq {
		e.maxFreq = int(f)
	}
}

// popBucket returns the next pair whose live frequency equals the maximum
// queued frequency and is at least 2. Stale entries are skipped or relocated
// to their current bucket. Returns false when no pair occurs twice.
func (e *Engine[T]) popBucket() (pairKey, *pairRecord, bool) {
	for e.maxFreq >= 2 {
		bucket := e.buckets[e.maxFreq]
		if len(bucket) == 0 {
			e.maxFreq--
			continue
		}

		key := bucket[len(bucket)-1]
		e.buckets[e.maxFreq] = bucket[:len(bucket)-1]

		rec := e.pairs[key]
		if rec == nil || rec.freq < 2 {
			continue
		}
		if int(rec.freq) != e.maxFreq {
			// Frequency changed since the push; requeue at its current
			// bucket rather than processing out of order.
			e.pushBucket(key, rec.freq)
			continue
		}
		return key, rec, true
	}
	return pairKey{}, nil, false
}
