package vtr

import "fmt"

// uint64Type is the unsigned 64-bit integer built-in. It maps to a single
// BIGINT UNSIGNED column.
type uint64Type struct{}

func (uint64Type) Name() string { return "uint64" }

func (uint64Type) PhysicalColumns() []ColumnSpec {
	return []ColumnSpec{{SQLType: "BIGINT UNSIGNED"}}
}

func (t uint64Type) Encode(v Value) ([]any, error) {
	n, ok := v.Data.(uint64)
	if !ok {
		return nil, fmt.Errorf("vtr: uint64 encode: want uint64, got %T", v.Data)
	}
	return []any{n}, nil
}

func (t uint64Type) Decode(c *RowCursor) (Value, error) {
	raw, ok := c.Next()
	if !ok {
		return Value{}, fmt.Errorf("vtr: uint64 decode: cursor exhausted")
	}
	n, err := toUint64(raw)
	if err != nil {
		return Value{}, fmt.Errorf("vtr: uint64 decode: %w", err)
	}
	return Value{Type: t, Data: n}, nil
}

// bytesType is the variable-length byte-string built-in, stored as
// VARBINARY.
type bytesType struct{}

func (bytesType) Name() string { return "bytes" }

func (bytesType) PhysicalColumns() []ColumnSpec {
	return []ColumnSpec{{SQLType: "VARBINARY(1024)"}}
}

func (t bytesType) Encode(v Value) ([]any, error) {
	b, ok := v.Data.([]byte)
	if !ok {
		return nil, fmt.Errorf("vtr: bytes encode: want []byte, got %T", v.Data)
	}
	return []any{b}, nil
}

func (t bytesType) Decode(c *RowCursor) (Value, error) {
	raw, ok := c.Next()
	if !ok {
		return Value{}, fmt.Errorf("vtr: bytes decode: cursor exhausted")
	}
	b, err := toBytes(raw)
	if err != nil {
		return Value{}, fmt.Errorf("vtr: bytes decode: %w", err)
	}
	return Value{Type: t, Data: b}, nil
}

// textType is the variable-length text built-in, stored as TEXT.
type textType struct{}

func (textType) Name() string { return "text" }

func (textType) PhysicalColumns() []ColumnSpec {
	return []ColumnSpec{{SQLType: "TEXT"}}
}

func (t textType) Encode(v Value) ([]any, error) {
	s, ok := v.Data.(string)
	if !ok {
		return nil, fmt.Errorf("vtr: text encode: want string, got %T", v.Data)
	}
	return []any{s}, nil
}

func (t textType) Decode(c *RowCursor) (Value, error) {
	raw, ok := c.Next()
	if !ok {
		return Value{}, fmt.Errorf("vtr: text decode: cursor exhausted")
	}
	s, err := toString(raw)
	if err != nil {
		return Value{}, fmt.Errorf("vtr: text decode: %w", err)
	}
	return Value{Type: t, Data: s}, nil
}

// Point2D is the payload type for the point2d built-in.
type Point2D struct {
	X, Y int64
}

// point2DType is a compound, multi-column built-in: a 2D integer point
// stored across two BIGINT columns.
type point2DType struct{}

func (point2DType) Name() string { return "point2d" }

func (point2DType) PhysicalColumns() []ColumnSpec {
	return []ColumnSpec{
		{Suffix: "_x", SQLType: "BIGINT"},
		{Suffix: "_y", SQLType: "BIGINT"},
	}
}

func (t point2DType) Encode(v Value) ([]any, error) {
	p, ok := v.Data.(Point2D)
	if !ok {
		return nil, fmt.Errorf("vtr: point2d encode: want Point2D, got %T", v.Data)
	}
	return []any{p.X, p.Y}, nil
}

func (t point2DType) Decode(c *RowCursor) (Value, error) {
	if c.Remaining() < 2 {
		return Value{}, fmt.Errorf("vtr: point2d decode: need 2 columns, have %d", c.Remaining())
	}
	xRaw, _ := c.Next()
	yRaw, _ := c.Next()
	x, err := toInt64(xRaw)
	if err != nil {
		return Value{}, fmt.Errorf("vtr: point2d decode x: %w", err)
	}
	y, err := toInt64(yRaw)
	if err != nil {
		return Value{}, fmt.Errorf("vtr: point2d decode y: %w", err)
	}
	return Value{Type: t, Data: Point2D{X: x, Y: y}}, nil
}

func toUint64(raw any) (uint64, error) {
	switch n := raw.(type) {
	case uint64:
		return n, nil
	case int64:
		return uint64(n), nil
	case []byte:
		return parseUint(string(n))
	case string:
		return parseUint(n)
	default:
		return 0, fmt.Errorf("unsupported column value %T", raw)
	}
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case []byte:
		return parseInt(string(n))
	case string:
		return parseInt(n)
	default:
		return 0, fmt.Errorf("unsupported column value %T", raw)
	}
}

func toBytes(raw any) ([]byte, error) {
	switch b := raw.(type) {
	case []byte:
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("unsupported column value %T", raw)
	}
}

func toString(raw any) (string, error) {
	switch s := raw.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("unsupported column value %T", raw)
	}
}

func parseUint(s string) (uint64, error) {
	var n uint64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func parseInt(s string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
