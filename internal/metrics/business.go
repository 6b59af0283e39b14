package metrics

// IncrementWorkplaceCreated increments workplace creation counter
func (m *Metrics) IncrementWorkplaceCreated() {
	m.safeExecute("IncrementWorkplaceCreated", func() {
		m.WorkplaceCreatedTotal.Inc()
	})
}

// IncrementSprintCreated increments sprint creation counter
func (m *Metrics) IncrementSprintCreated() {
	m.safeExecute("IncrementSprintCreated", func() {
		m.SprintCreatedTotal.Inc()
	})
}

// IncrementIssueCreated increments issue creation counter
func (m *Metrics) IncrementIssueCreated() {
	m.safeExecute("IncrementIssueCreated", func() {
		m.IssueCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// IncrementSprintOverlapRejected increments the overlap rejection counter
func (m *Metrics) IncrementSprintOverlapRejected() {
	m.safeExecute("IncrementSprintOverlapRejected", func() {
		m.SprintOverlapRejectedTotal.Inc()
	})
}

// AddOrphansSwept records orphaned rows removed by the sweep job
func (m *Metrics) AddOrphansSwept(entity string, count int64) {
	m.safeExecute("AddOrphansSwept", func() {
		m.OrphansSweptTotal.WithLabelValues(entity).Add(float64(count))
	})
}

// SetWorkplacesTotal sets total workplaces gauge
func (m *Metrics) SetWorkplacesTotal(count int64) {
	m.safeExecute("SetWorkplacesTotal", func() {
		m.WorkplacesTotal.Set(float64(count))
	})
}

// SetIssuesTotal sets total issues gauge
func (m *Metrics) SetIssuesTotal(count int64) {
	m.safeExecute("SetIssuesTotal", func() {
		m.IssuesTotal.Set(float64(count))
	})
}
