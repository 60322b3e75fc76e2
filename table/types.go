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

// Package table holds the host-side representation of query results: typed,
// nullable cell values grouped into schema-tagged row batches.
package table

import (
	"fmt"
	"strconv"
	"time"
)

// DataType represents the host type of a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents 64-bit integer data.
	TypeInt
	// TypeFloat represents 64-bit floating-point data.
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeDate represents date data (without time).
	TypeDate
	// TypeTime represents time-of-day data (without date).
	TypeTime
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
	// TypeDecimal represents decimal/numeric data (fixed precision).
	TypeDecimal
	// TypeBinary represents binary/blob data.
	TypeBinary
	// TypeList represents list/array data.
	TypeList
	// TypeStruct represents structured data (nested fields).
	TypeStruct
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTime:
		return "Time"
	case TypeTimestamp:
		return "Timestamp"
	case TypeDecimal:
		return "Decimal"
	case TypeBinary:
		return "Binary"
	case TypeList:
		return "List"
	case TypeStruct:
		return "Struct"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// Value is a typed container for a single cell. A null cell keeps the type of
// its column, so integer columns with missing values are never widened to
// floats just to represent the null.
type Value struct {
	// Raw holds the underlying value.
	// The Go type depends on the DataType field.
	Raw interface{}

	// Type indicates the data type of this value.
	Type DataType

	// IsNull indicates whether this value is null.
	IsNull bool

	// Formatted is a pre-formatted string representation for display.
	Formatted string
}

// NewValue creates a new Value from a raw value and type.
func NewValue(raw interface{}, dataType DataType) Value {
	if raw == nil {
		return NewNullValue(dataType)
	}

	return Value{
		Raw:       raw,
		Type:      dataType,
		IsNull:    false,
		Formatted: formatValue(raw, dataType),
	}
}

// NewNullValue creates a null value of the specified type.
func NewNullValue(dataType DataType) Value {
	return Value{
		Raw:       nil,
		Type:      dataType,
		IsNull:    true,
		Formatted: "",
	}
}

// formatValue converts a raw value to a display string.
func formatValue(raw interface{}, dataType DataType) string {
	switch dataType {
	case TypeTimestamp:
		if t, ok := raw.(time.Time); ok {
			return t.Format("2006-01-02 15:04:05.999999")
		}
	case TypeDate:
		if t, ok := raw.(time.Time); ok {
			return t.Format("2006-01-02")
		}
	case TypeTime:
		if t, ok := raw.(time.Time); ok {
			return t.Format("15:04:05.999999")
		}
	case TypeFloat:
		if f, ok := raw.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	case TypeInt:
		if n, ok := raw.(int64); ok {
			return strconv.FormatInt(n, 10)
		}
	case TypeBool:
		if b, ok := raw.(bool); ok {
			return strconv.FormatBool(b)
		}
	}
	return fmt.Sprintf("%v", raw)
}
