package series

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// ColumnType tags the element type of a column and manufactures new columns of that type
type ColumnType int

const (
	TypeUnknown ColumnType = iota
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeBoolean
)

var columnTypeNames = map[ColumnType]string{
	TypeUnknown: "unknown",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeString:  "string",
	TypeBoolean: "bool",
}

// String returns the type name
func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return columnTypeNames[TypeUnknown]
}

// IsNumeric reports whether values of this type can feed numeric aggregates
func (t ColumnType) IsNumeric() bool {
	switch t {
	case TypeInt32, TypeInt64, TypeFloat32, TypeFloat64:
		return true
	default:
		return false
	}
}

// TypeOf maps an Arrow data type to its column type
func TypeOf(dt arrow.DataType) (ColumnType, bool) {
	if dt == nil {
		return TypeUnknown, false
	}
	switch dt.ID() {
	case arrow.INT32:
		return TypeInt32, true
	case arrow.INT64:
		return TypeInt64, true
	case arrow.FLOAT32:
		return TypeFloat32, true
	case arrow.FLOAT64:
		return TypeFloat64, true
	case arrow.STRING:
		return TypeString, true
	case arrow.BOOL:
		return TypeBoolean, true
	default:
		return TypeUnknown, false
	}
}

// Create returns an empty writable column of this type
func (t ColumnType) Create(name string) MutableColumn {
	return t.CreateFilled(name, 0)
}

// CreateFilled returns a writable column of this type holding rowCount missing values.
// It returns nil for TypeUnknown.
func (t ColumnType) CreateFilled(name string, rowCount int) MutableColumn {
	switch t {
	case TypeInt32:
		return NewMutable[int32](name, rowCount)
	case TypeInt64:
		return NewMutable[int64](name, rowCount)
	case TypeFloat32:
		return NewMutable[float32](name, rowCount)
	case TypeFloat64:
		return NewMutable[float64](name, rowCount)
	case TypeString:
		return NewMutable[string](name, rowCount)
	case TypeBoolean:
		return NewMutable[bool](name, rowCount)
	default:
		return nil
	}
}
