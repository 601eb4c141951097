package bench

// Split partitions a workload descriptor into threadsCount per-thread
// descriptors (§4.5). Each thread gets a floor-divided share of records and
// operations, with the remainder distributed to the first threads in index
// order, and a start_key advanced so that insert-class workloads never
// collide across threads.
func Split(w *Workload, threadsCount int) []*Workload {
	threads := make([]*Workload, threadsCount)

	recordsBase := w.DBRecordsCount / int64(threadsCount)
	recordsRemainder := w.DBRecordsCount % int64(threadsCount)
	opsBase := w.DBOperationsCount / int64(threadsCount)
	opsRemainder := w.DBOperationsCount % int64(threadsCount)

	pureInsert := w.isPureInsertClass()
	startKey := w.StartKey

	for i := 0; i < threadsCount; i++ {
		t := *w
		t.RecordsCount = recordsBase
		if int64(i) < recordsRemainder {
			t.RecordsCount++
		}

		t.OperationsCount = opsBase
		if int64(i) < opsRemainder {
			t.OperationsCount++
		}
		if t.OperationsCount < 1 {
			t.OperationsCount = 1
		}

		t.StartKey = startKey

		if pureInsert {
			startKey += t.OperationsCount * insertKeyMultiplier(w)
		} else {
			startKey += t.RecordsCount
		}

		threads[i] = &t
	}

	return threads
}

// insertKeyMultiplier returns how many keys a single issued operation
// consumes for a pure-insert-class workload: 1 for plain upsert,
// batch_upsert_max_length for batch upserts, bulk_load_max_length for bulk
// loads.
func insertKeyMultiplier(w *Workload) int64 {
	switch {
	case w.BatchUpsertProportion == 1.0:
		return int64(w.BatchUpsert.MaxLength)
	case w.BulkLoadProportion == 1.0:
		return int64(w.BulkLoad.MaxLength)
	default:
		return 1
	}
}
