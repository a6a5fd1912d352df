// Package lingrid intersects polyline shapefiles with a sampling grid.
//
// For every record of a .shp stream (PolyLine, PolyLineZ or PolyLineM) and every
// grid cell, it computes the length of the record that lies inside the cell.
// The result is a table of (cellID, recordID, recordLength) rows, one per
// nonzero intersection, ordered by cell and then by the order records were
// read. This is the input to stratified sampling of linear networks such as
// roads and streams.
//
// # Basic Usage
//
//	cells, err := lingrid.ReadCellsFile("cells.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	grid, err := lingrid.NewGrid(cells, 100, 100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	table, err := lingrid.IntersectFile("roads.shp", grid, lingrid.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, row := range table.Rows() {
//	    fmt.Printf("cell %d record %d: %.2f\n", row.CellID, row.RecordID, row.RecordLength)
//	}
//
// # Grid Cells
//
// A cell is given by its anchor point, the north-east corner of its rectangle:
// the rectangle spans [X-DX, X] by [Y-DY, Y]. Rectangles are closed, so a
// segment lying exactly on an edge shared by two cells is counted in both.
//
// # Records and Parts
//
// A record may have several parts. Segments join consecutive points of one part
// and never join the last point of a part to the first point of the next.
// Null records are read and produce no rows.
//
// # Errors
//
// A run either returns the complete table or an error and no table. Decoder
// errors are typed (ErrTruncatedRecord, ErrResourceExhausted, ErrStreamOpen and
// others) and can be inspected with errors.As:
//
//	_, err := lingrid.IntersectFile(path, grid, opts)
//	var trunc *lingrid.ErrTruncatedRecord
//	if errors.As(err, &trunc) {
//	    fmt.Printf("record %d cut short in %s\n", trunc.RecordNumber, trunc.Field)
//	}
//
// # Performance
//
// With Options.UseIndex (the default) candidate cells for a record come from an
// R-tree over cell rectangles instead of a scan of every cell. Options.Parallel
// evaluates records on a worker pool; results are committed in stream order so
// the table is identical to a serial run.
//
// # Persistence and Rendering
//
// Tables can be written as CSV (Table.WriteCSV), stored in a SQLite database
// (OpenStore, Store.SaveRun) and rendered to an image (SavePlot).
package lingrid
