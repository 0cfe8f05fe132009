package scenes

// QueuedWork returns the work waiting behind the running join for name, or
// nil. Values compare equal only while the same work stays queued.
func QueuedWork(svc *Service, name string) any {
	s := svc.scheduler
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lanes[name]; ok && l.pending != nil {
		return l.pending
	}
	return nil
}
