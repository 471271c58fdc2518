package main

import (
	"context"
	"log"
	_ "time/tzdata"

	"DayAheadArchiver/cmd/dayahead/commands"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	commands.ExecuteContext(context.Background())
}
