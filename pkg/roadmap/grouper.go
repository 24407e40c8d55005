// Package roadmap partitions features into the fixed pipeline columns.
package roadmap

import "featureboard-be/internal/entity"

type Column struct {
	Status   entity.Status
	Features []*entity.Feature
}

// Roadmap always holds one column per pipeline status, in pipeline order.
// Dropped counts features whose status is outside the pipeline; they appear
// in no column.
type Roadmap struct {
	Columns []Column
	Dropped int
}

// Group buckets features by status, keeping input order within a column.
func Group(features []*entity.Feature) Roadmap {
	statuses := entity.Statuses()
	index := make(map[entity.Status]int, len(statuses))
	columns := make([]Column, len(statuses))
	for i, s := range statuses {
		index[s] = i
		columns[i] = Column{Status: s, Features: make([]*entity.Feature, 0)}
	}

	dropped := 0
	for _, f := range features {
		if f == nil {
			continue
		}
		i, ok := index[f.Status]
		if !ok {
			dropped++
			continue
		}
		columns[i].Features = append(columns[i].Features, f)
	}

	return Roadmap{Columns: columns, Dropped: dropped}
}

// Column returns the bucket for status, or nil for a status outside the pipeline.
func (r Roadmap) Column(status entity.Status) []*entity.Feature {
	for _, c := range r.Columns {
		if c.Status == status {
			return c.Features
		}
	}
	return nil
}
