package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/quicklake/columnar"
	"github.com/quicklake/columnar/blockenc"
)

// inspectCommand prints the columnar decomposition of each row block in
// files.
type inspectCommand struct {
	files *[]string
}

func (cmd *inspectCommand) run(c *kingpin.ParseContext) error {
	for _, f := range *cmd.files {
		cmd.printFile(f)
	}
	return nil
}

func (cmd *inspectCommand) printFile(name string) {
	data, err := os.ReadFile(name)
	if err != nil {
		exitWithErr(fmt.Errorf("failed to read file: %w", err))
	}

	block, err := blockenc.Decode(data)
	if err != nil {
		exitWithErr(fmt.Errorf("failed to decode block: %w", err))
	}

	row, err := columnar.DecodeRow(block)
	if err != nil {
		exitWithErr(fmt.Errorf("failed to decode row block: %w", err))
	}

	bold := color.New(color.Bold)
	bold.Printf("%s:\n", name)
	fmt.Printf(
		"\tsize: %v, encoding: %s, positions: %d, nulls: %d\n",
		humanize.Bytes(uint64(len(data))),
		encodingChain(block),
		row.PositionCount(),
		nullCount(row),
	)

	for i := 0; i < row.FieldCount(); i++ {
		field := row.Field(i)
		fmt.Printf(
			"\t\tfield %d: encoding: %s, values: %d\n",
			i,
			encodingChain(field),
			field.PositionCount(),
		)
	}
}

// encodingChain renders the stack of encodings wrapping a block, outermost
// first.
func encodingChain(block columnar.Block) string {
	switch block := block.(type) {
	case *columnar.DictionaryBlock:
		return fmt.Sprintf("%s(%s)", block.Kind(), encodingChain(block.Dictionary()))
	case *columnar.RunLengthBlock:
		return fmt.Sprintf("%s(%s)", block.Kind(), encodingChain(block.RunValue()))
	case *columnar.RowBlock:
		return fmt.Sprintf("%s(%s)", block.Kind(), encodingChain(block.Payload()))
	default:
		return block.Kind().String()
	}
}

func nullCount(row *columnar.DecodedRow) int {
	var nulls int
	for i := 0; i < row.PositionCount(); i++ {
		if row.IsNull(i) {
			nulls++
		}
	}
	return nulls
}

func addInspectCommand(app *kingpin.Application) {
	cmd := &inspectCommand{}
	inspect := app.Command("inspect", "Print the columnar decomposition of row block files.").Action(cmd.run)
	cmd.files = inspect.Arg("file", "The file to inspect.").ExistingFiles()
}
