package common

import (
	"fmt"
	"strings"
)

// EnumRegistry provides utilities for managing enum string representations.
type EnumRegistry struct {
	mappings map[string]EnumStringMap
}

// NewEnumRegistry creates a new EnumRegistry instance.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{
		mappings: make(map[string]EnumStringMap),
	}
}

// RegisterEnum registers an enum type with its string mapping.
func (er *EnumRegistry) RegisterEnum(typeName string, mapping EnumStringMap) {
	er.mappings[typeName] = mapping
}

// FormatEnum formats an enum value for a registered type.
func (er *EnumRegistry) FormatEnum(typeName string, value int) string {
	if mapping, exists := er.mappings[typeName]; exists {
		if str, found := mapping[value]; found {
			return str
		}
	}
	return fmt.Sprintf("unknown_%s(%d)", typeName, value)
}

// Window enum mappings

// FunctionKindMapping maps window functions to their SQL names.
var FunctionKindMapping = EnumStringMap{
	0: "SUM",        // Sum
	1: "MAX",        // Max
	2: "MEAN",       // Mean
	3: "MIN",        // Min
	4: "COUNT",      // Count
	5: "ROW_NUMBER", // RowNumber
	6: "RANK",       // Rank
	7: "DENSE_RANK", // DenseRank
}

// BoundTypeMapping maps frame bound types to their SQL keywords.
var BoundTypeMapping = EnumStringMap{
	0: "UNBOUNDED PRECEDING", // UnboundedPreceding
	1: "PRECEDING",           // Preceding
	2: "CURRENT ROW",         // CurrentRow
	3: "FOLLOWING",           // Following
	4: "UNBOUNDED FOLLOWING", // UnboundedFollowing
}

// GrowthTypeMapping maps frame growth strategies to their names.
var GrowthTypeMapping = EnumStringMap{
	0: "FIXED",       // Fixed
	1: "FIXED_START", // FixedStart
	2: "FIXED_END",   // FixedEnd
	3: "SLIDING",     // Sliding
}

// Sort directions
const (
	OrderAscending = iota
	OrderDescending
)

// OrderDirectionMapping maps order directions to their string representations.
var OrderDirectionMapping = EnumStringMap{
	OrderAscending:  "ASC",
	OrderDescending: "DESC",
}

// Default enum registry with common mappings.
var defaultEnumRegistry = func() *EnumRegistry {
	registry := NewEnumRegistry()
	registry.RegisterEnum("FunctionKind", FunctionKindMapping)
	registry.RegisterEnum("BoundType", BoundTypeMapping)
	registry.RegisterEnum("GrowthType", GrowthTypeMapping)
	return registry
}()

// FormatFunctionKind formats a window function enum value.
func FormatFunctionKind(kind int) string {
	return defaultEnumRegistry.FormatEnum("FunctionKind", kind)
}

// FormatBoundType formats a frame bound type enum value.
func FormatBoundType(boundType int) string {
	return defaultEnumRegistry.FormatEnum("BoundType", boundType)
}

// FormatGrowthType formats a growth strategy enum value.
func FormatGrowthType(growth int) string {
	return defaultEnumRegistry.FormatEnum("GrowthType", growth)
}

// FormatOrderDirection formats an order direction enum value.
func FormatOrderDirection(direction int) string {
	return FormatEnum(direction, OrderDirectionMapping)
}

// StringToEnum provides utilities for parsing enum values from strings.
type StringToEnum struct {
	reverseMappings map[string]map[string]int
}

// NewStringToEnum creates a new StringToEnum instance.
func NewStringToEnum() *StringToEnum {
	return &StringToEnum{
		reverseMappings: make(map[string]map[string]int),
	}
}

// RegisterReverseMapping registers a reverse mapping for an enum type.
func (ste *StringToEnum) RegisterReverseMapping(typeName string, mapping EnumStringMap) {
	reverseMap := make(map[string]int)
	for value, str := range mapping {
		reverseMap[strings.ToUpper(str)] = value
		reverseMap[strings.ToLower(str)] = value
		reverseMap[str] = value
	}
	ste.reverseMappings[typeName] = reverseMap
}

// ParseEnum parses a string to its enum value.
func (ste *StringToEnum) ParseEnum(typeName, str string) (int, bool) {
	if reverseMap, exists := ste.reverseMappings[typeName]; exists {
		if value, found := reverseMap[str]; found {
			return value, true
		}
		if value, found := reverseMap[strings.ToUpper(str)]; found {
			return value, true
		}
		if value, found := reverseMap[strings.ToLower(str)]; found {
			return value, true
		}
	}
	return 0, false
}

// Default string-to-enum converter with common mappings.
var defaultStringToEnum = func() *StringToEnum {
	converter := NewStringToEnum()
	converter.RegisterReverseMapping("FunctionKind", FunctionKindMapping)
	converter.RegisterReverseMapping("BoundType", BoundTypeMapping)
	converter.RegisterReverseMapping("OrderDirection", OrderDirectionMapping)
	return converter
}()

// ParseFunctionKind parses a window function name such as "sum" or "DENSE_RANK".
func ParseFunctionKind(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("FunctionKind", str)
}

// ParseBoundType parses a frame bound keyword. Underscores or hyphens may stand in for spaces.
func ParseBoundType(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("BoundType", strings.NewReplacer("_", " ", "-", " ").Replace(str))
}

// ParseOrderDirection parses an order direction string.
func ParseOrderDirection(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("OrderDirection", str)
}
