package outwriter

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/commitscore/schema"
	"github.com/olekukonko/tablewriter"
)

// statusTimeFormat is how store timestamps are displayed.
const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints lint cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintStoreStatus prints history store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) error {
	fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return nil
	}
	fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Fprintf(w, "Passed Runs: %d\n", status.PassedRuns)
		fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
		fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
	}
	if len(status.TableSizes) == 0 {
		return nil
	}

	tables := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		tables = append(tables, name)
	}
	slices.Sort(tables)

	var data [][]string
	for _, name := range tables {
		data = append(data, []string{name, strconv.FormatInt(status.TableSizes[name], 10)})
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Rows"})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
