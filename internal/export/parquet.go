package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// arrowSchema types each column from the registry; unregistered columns are
// strings.
func arrowSchema(t *table.Table) (*arrow.Schema, []schema.FieldType) {
	columns := t.Columns()
	kinds := make([]schema.FieldType, len(columns))
	fields := make([]arrow.Field, len(columns))

	contract, _ := schema.Lookup(t.Name())
	for i, col := range columns {
		kind := schema.String
		if contract != nil {
			if f, ok := contract.Field(col); ok {
				kind = f.Type
			}
		}
		kinds[i] = kind
		// nullable even for mandatory fields
		fields[i] = arrow.Field{Name: col, Type: arrowType(kind), Nullable: true}
	}
	meta := arrow.NewMetadata([]string{"table", "schema_version"}, []string{t.Name(), schema.Version})
	return arrow.NewSchema(fields, &meta), kinds
}

func arrowType(kind schema.FieldType) arrow.DataType {
	switch kind {
	case schema.Int:
		return arrow.PrimitiveTypes.Int64
	case schema.Float:
		return arrow.PrimitiveTypes.Float64
	case schema.Date:
		return arrow.FixedWidthTypes.Date32
	case schema.Bool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

func writeParquet(path string, t *table.Table) error {
	sc, kinds := arrowSchema(t)
	mem := memory.NewGoAllocator()

	rb := array.NewRecordBuilder(mem, sc)
	defer rb.Release()

	var mismatched int
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			if !appendCell(rb.Field(j), kinds[j], v) {
				mismatched++
			}
		}
	}
	if mismatched > 0 {
		slog.Warn("cells not matching the column type written as null", "table", t.Name(), "cells", mismatched)
	}

	rec := rb.NewRecord()
	defer rec.Release()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer, err := pqarrow.NewFileWriter(sc, file, parquet.NewWriterProperties(parquet.WithAllocator(mem)),
		pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem)))
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write record batch: %w", err)
	}
	return writer.Close()
}

// appendCell appends v, or a null when v is nil or of the wrong type. It
// reports false for the wrong-type case.
func appendCell(b array.Builder, kind schema.FieldType, v any) bool {
	if v == nil {
		b.AppendNull()
		return true
	}
	switch kind {
	case schema.Int:
		if n, ok := v.(int64); ok {
			b.(*array.Int64Builder).Append(n)
			return true
		}
	case schema.Float:
		switch x := v.(type) {
		case float64:
			b.(*array.Float64Builder).Append(x)
			return true
		case int64:
			b.(*array.Float64Builder).Append(float64(x))
			return true
		}
	case schema.Date:
		if d, ok := v.(time.Time); ok {
			b.(*array.Date32Builder).Append(arrow.Date32FromTime(d))
			return true
		}
	case schema.Bool:
		if x, ok := v.(bool); ok {
			b.(*array.BooleanBuilder).Append(x)
			return true
		}
	default:
		b.(*array.StringBuilder).Append(cellText(v))
		return true
	}
	b.AppendNull()
	return false
}

func readParquet(path, name string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(context.Background(), file, parquet.NewReaderProperties(mem),
		pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	defer tbl.Release()

	n := int(tbl.NumRows())
	ncols := int(tbl.NumCols())
	columns := make([]string, ncols)
	for j := 0; j < ncols; j++ {
		columns[j] = tbl.Schema().Field(j).Name
	}

	rows := make([][]any, n)
	for i := range rows {
		rows[i] = make([]any, ncols)
	}
	conv := newConverter(name, columns)
	for j := 0; j < ncols; j++ {
		i := 0
		for _, chunk := range tbl.Column(j).Data().Chunks() {
			for k := 0; k < chunk.Len(); k++ {
				rows[i][j] = conv.value(j, arrowValue(chunk, k))
				i++
			}
		}
	}

	b := table.NewBuilder(name, columns...)
	for _, row := range rows {
		if err := b.Append(row...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func arrowValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Boolean:
		return a.Value(i)
	case *array.Date32:
		return a.Value(i).ToTime()
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	}
	return arr.ValueStr(i)
}
