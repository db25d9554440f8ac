package assembly

import "github.com/Vamanan/nand2tetris2/pkg/vm"

// Assembly is implemented by code generators for a target machine
type Assembly interface {
	// WriteCommand translates one VM command and writes it to the output
	WriteCommand(cmd vm.Command) error
	// Close reports any pending output error
	Close() error
}
