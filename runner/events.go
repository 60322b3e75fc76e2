// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"fmt"

	"parvu/table"
)

// EventKind distinguishes the outcomes a worker can report.
type EventKind int

const (
	// DataReady signals that a file finished loading and the dataset is
	// available.
	DataReady EventKind = iota
	// LoadFailed signals that a file could not be loaded.
	LoadFailed
	// PageReady carries one page of the current view.
	PageReady
	// QueryFailed signals that a query was rejected or failed to execute.
	QueryFailed
)

// String returns the string representation of an EventKind.
func (k EventKind) String() string {
	switch k {
	case DataReady:
		return "DataReady"
	case LoadFailed:
		return "LoadFailed"
	case PageReady:
		return "PageReady"
	case QueryFailed:
		return "QueryFailed"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Event is one worker outcome. Batch is set for PageReady, Err for the two
// failure kinds. Query and Page echo the submission so a consumer can match
// events to requests.
type Event struct {
	Kind  EventKind
	Batch *table.Batch
	Query string
	Page  int
	Err   error
}
