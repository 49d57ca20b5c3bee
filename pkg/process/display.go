package process

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

func WriteInfo(w io.Writer, s Summary) {
	fmt.Fprintln(w, "- - - - - PROCESS INFORMATION - - - - -")
	fmt.Fprintf(w, "Process Id: %d\n", s.PID)
	fmt.Fprintf(w, "Process Name: %s\n", orNone(s.Name))
	fmt.Fprintf(w, "Image Full Path: %s\n", orNone(s.ImagePath))
	fmt.Fprintln(w, "- - - - - - - - - - - - - - - - - - - -")
}

// WriteList renders infos in the order given.
func WriteList(w io.Writer, infos []Info) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Process Id", "Parent Id", "Threads", "Image Name"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetHeaderLine(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, info := range infos {
		table.Append([]string{
			strconv.FormatUint(uint64(info.PID), 10),
			strconv.FormatUint(uint64(info.ParentPID), 10),
			strconv.FormatUint(uint64(info.Threads), 10),
			info.Exe,
		})
	}
	table.Render()
}
