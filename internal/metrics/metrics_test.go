package metrics

import "testing"

func TestMetrics_IncrementAndGet(t *testing.T) {
	Reset()

	SearchIssued()
	PageFetched()
	PageFetched()
	CacheHit()
	CacheMiss()
	RefreshStarted()
	RefreshCompleted()
	RefreshFailed()

	m := Get()
	if m.SearchesIssued != 1 {
		t.Errorf("SearchesIssued = %d, want 1", m.SearchesIssued)
	}
	if m.PagesFetched != 2 {
		t.Errorf("PagesFetched = %d, want 2", m.PagesFetched)
	}
	if m.CacheHits != 1 || m.CacheMisses != 1 {
		t.Errorf("CacheHits/CacheMisses = %d/%d, want 1/1", m.CacheHits, m.CacheMisses)
	}
	if m.RefreshesStarted != 1 || m.RefreshesCompleted != 1 || m.RefreshesFailed != 1 {
		t.Errorf("Refreshes = %d/%d/%d, want 1/1/1",
			m.RefreshesStarted, m.RefreshesCompleted, m.RefreshesFailed)
	}
}

func TestMetrics_Reset(t *testing.T) {
	SearchIssued()
	Reset()

	if m := Get(); m.SearchesIssued != 0 {
		t.Errorf("SearchesIssued after Reset = %d, want 0", m.SearchesIssued)
	}
}
