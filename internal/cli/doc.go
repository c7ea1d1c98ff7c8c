// Package cli implements the hydro command line: one cobra command per
// ledger, catalog, preset and settings operation, plus an interactive shell.
//
// Amounts typed by the user and amounts printed back are in the display
// unit: the --unit flag if given, otherwise the measurement unit stored in
// settings. Everything handed to the services is converted to the canonical
// unit first.
//
// Commands
//
//	add AMOUNT [DRINK]        record a drink (default Water)
//	quick [ID]                list presets, or record preset ID
//	undo                      remove the most recent record
//	today | day DATE          progress and records of one day
//	week [DATE]               seven daily totals ending at DATE
//	month [YYYY-MM]           every daily total of a month
//	streak                    consecutive days the goal was met
//	clear-day [DATE]          delete the records of one day
//	clear-all                 delete every record
//	drinks ...                list and edit drink types
//	presets ...               list and edit quick-add presets
//	settings ...              show and change preferences
//	shell                     interactive prompt
package cli
