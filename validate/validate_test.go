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

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccepts(t *testing.T) {
	queries := []string{
		"SELECT * FROM data",
		"select id, name from data where id > 10 order by name",
		"SELECT count(*) FROM data GROUP BY category",
		"",
		"   ",
		// join keywords as substrings of identifiers are fine
		"SELECT joined_at, leftover FROM data",
	}
	for _, q := range queries {
		assert.NoError(t, Validate(q), "query: %q", q)
	}
}

func TestValidateRejectsJoins(t *testing.T) {
	queries := []string{
		"SELECT * FROM data JOIN other ON data.id = other.id",
		"select * from data join other on 1=1",
		"SELECT * FROM data LEFT JOIN other ON data.id = other.id",
		"SELECT * FROM data RIGHT  JOIN other ON data.id = other.id",
		"select * from data full outer join other on 1=1",
		"SELECT * FROM data INNER\tJOIN other ON 1=1",
		"SELECT * FROM data Inner Join other ON 1=1",
	}
	for _, q := range queries {
		err := Validate(q)
		require.Error(t, err, "query: %q", q)

		var rerr *RuleError
		require.True(t, errors.As(err, &rerr), "query: %q", q)
		assert.Equal(t, "Joins", rerr.Rule)
		assert.NotEmpty(t, rerr.Message)
	}
}

func TestRuleErrorMessage(t *testing.T) {
	err := &RuleError{Rule: "Joins", Message: "nope"}
	assert.Equal(t, "Joins: nope", err.Error())
}
