package app

// WaitFetches blocks until every question fetch started so far has returned.
func (s *Session) WaitFetches() { s.fetches.Wait() }
