package attendance

// Add appends a session to the given weekday, rejecting half-open interval
// overlaps with any session already on that day. Append order is insertion
// order; sessions are never re-sorted by time.
func (s *Schedule) Add(day string, sess Session) error {
	start, err := ParseClock(sess.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(sess.EndTime)
	if err != nil {
		return err
	}

	for _, existing := range s.Days[day] {
		exStart, err := ParseClock(existing.StartTime)
		if err != nil {
			continue // unparseable stored session cannot conflict
		}
		exEnd, err := ParseClock(existing.EndTime)
		if err != nil {
			continue
		}
		if start.minutes() < exEnd.minutes() && end.minutes() > exStart.minutes() {
			return ErrSessionConflict
		}
	}

	if s.Days == nil {
		s.Days = make(map[string][]Session)
	}
	s.Days[day] = append(s.Days[day], sess)
	return nil
}

// Remove deletes the session at position idx on the given weekday.
// The day key is dropped entirely once its sequence empties.
func (s *Schedule) Remove(day string, idx int) error {
	sessions, ok := s.Days[day]
	if !ok || idx < 0 || idx >= len(sessions) {
		return ErrSessionNotFound
	}
	s.Days[day] = append(sessions[:idx], sessions[idx+1:]...)
	if len(s.Days[day]) == 0 {
		delete(s.Days, day)
	}
	return nil
}

// RemoveSubject purges every session referencing the subject from all weekdays.
func (s *Schedule) RemoveSubject(subject string) {
	for day, sessions := range s.Days {
		kept := sessions[:0]
		for _, sess := range sessions {
			if sess.Subject != subject {
				kept = append(kept, sess)
			}
		}
		if len(kept) == 0 {
			delete(s.Days, day)
		} else {
			s.Days[day] = kept
		}
	}
}

// SessionsOn returns the day's sessions; nil when the day has none.
func (s Schedule) SessionsOn(day string) []Session {
	return s.Days[day]
}
