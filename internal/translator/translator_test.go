package translator

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vamanan/nand2tetris2/pkg/codegen"
	"github.com/Vamanan/nand2tetris2/pkg/color"
	"github.com/Vamanan/nand2tetris2/pkg/emulator"
	"github.com/Vamanan/nand2tetris2/pkg/parser"
	"github.com/Vamanan/nand2tetris2/pkg/vm"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const simpleAdd = `// Pushes and adds two constants.
push constant 7
push constant 8
add
`

var _ = Describe("Translate", func() {
	It("translates a unit into runnable assembly", func() {
		var out bytes.Buffer
		Expect(Translate(strings.NewReader(simpleAdd), &out, "SimpleAdd")).To(Succeed())

		Expect(out.String()).To(HavePrefix("// push constant 7\n"))
		Expect(out.String()).To(ContainSubstring("// add\n"))

		m, err := emulator.Exec(out.String(), emulator.WithRAM(DefaultRAM))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Stack(256)).To(Equal([]int16{15}))
	})

	It("omits command comments when asked", func() {
		var out bytes.Buffer
		Expect(Translate(strings.NewReader(simpleAdd), &out, "SimpleAdd", codegen.WithComments(false))).To(Succeed())
		Expect(out.String()).NotTo(ContainSubstring("//"))
	})

	It("stops at the first malformed command and keeps earlier output", func() {
		var out bytes.Buffer
		err := Translate(strings.NewReader("push constant 1\npush nowhere 2\npush constant 3\n"), &out, "Bad")

		var perr *parser.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Pos).To(Equal(vm.Position{File: "Bad.vm", Line: 2}))
		Expect(err).To(MatchError(parser.ErrUnknownSegment))

		Expect(out.String()).To(ContainSubstring("// push constant 1"))
		Expect(out.String()).NotTo(ContainSubstring("push constant 3"))
	})

	It("reports pop constant with its position", func() {
		var out bytes.Buffer
		err := Translate(strings.NewReader("push constant 1\n\npop constant 5\n"), &out, "Bad")
		Expect(err).To(MatchError(codegen.ErrPopConstant))
		Expect(err.Error()).To(HavePrefix("Bad.vm:3: "))
		Expect(out.String()).NotTo(ContainSubstring("pop constant"))
	})

	Context("with a failing destination", func() {
		var mockCtrl *gomock.Controller

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("returns the first write error without retrying", func() {
			diskFull := errors.New("disk full")
			w := NewMockWriter(mockCtrl)
			w.EXPECT().Write(gomock.Any()).Return(0, diskFull).Times(1)

			err := Translate(strings.NewReader(simpleAdd), w, "SimpleAdd")
			Expect(err).To(MatchError(diskFull))
		})

		It("hands every command to the generator and closes it", func() {
			out := NewMockAssembly(mockCtrl)
			gomock.InOrder(
				out.EXPECT().WriteCommand(gomock.Any()).Return(nil).Times(3),
				out.EXPECT().Close().Return(nil),
			)

			p := parser.NewParser(strings.NewReader(simpleAdd), "SimpleAdd.vm")
			Expect(translate(p, out)).To(Succeed())
		})

		It("does not close a generator that failed", func() {
			broken := errors.New("broken")
			out := NewMockAssembly(mockCtrl)
			out.EXPECT().WriteCommand(gomock.Any()).Return(nil)
			out.EXPECT().WriteCommand(gomock.Any()).Return(broken)

			p := parser.NewParser(strings.NewReader(simpleAdd), "SimpleAdd.vm")
			Expect(translate(p, out)).To(MatchError(broken))
		})
	})
})

var _ = Describe("Translator", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeSource := func(name, src string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(src), 0o644)).To(Succeed())
		return path
	}

	It("writes the output next to the source", func() {
		path := writeSource("Foo.vm", "push constant 5\npop static 3\npush static 3\n")
		opts := Translator{SourceFile: path}
		Expect(opts.Translate()).To(Succeed())

		asm, err := os.ReadFile(filepath.Join(dir, "Foo.asm"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(asm)).To(ContainSubstring("@Foo.3\n"))
	})

	It("honours an explicit output path", func() {
		path := writeSource("Foo.vm", simpleAdd)
		target := filepath.Join(dir, "out.asm")
		opts := Translator{SourceFile: path, OutputFile: target, NoComments: true}
		Expect(opts.Translate()).To(Succeed())

		asm, err := os.ReadFile(target)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(asm)).To(HavePrefix("@7\n"))
	})

	It("runs the output in the emulator", func() {
		path := writeSource("SimpleAdd.vm", simpleAdd)
		opts := Translator{SourceFile: path, Run: true, Steps: 1000}
		Expect(opts.Translate()).To(Succeed())
	})

	It("reports a program that does not finish", func() {
		path := writeSource("Loop.vm", "label L\ngoto L\n")
		opts := Translator{SourceFile: path, Run: true, Steps: 100}
		Expect(opts.Translate()).To(MatchError(emulator.ErrMaxStepsExceeded))
	})

	It("leaves partial output behind on error", func() {
		path := writeSource("Bad.vm", "push constant 1\nfrobnicate\n")
		opts := Translator{SourceFile: path}
		Expect(opts.Translate()).To(MatchError(parser.ErrUnknownCommand))

		asm, err := os.ReadFile(filepath.Join(dir, "Bad.asm"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(asm)).To(ContainSubstring("// push constant 1"))
	})

	It("refuses to write over the source", func() {
		path := writeSource("Foo.vm", simpleAdd)
		opts := Translator{SourceFile: path, OutputFile: filepath.Join(dir, ".", "Foo.vm")}
		Expect(opts.Translate()).To(MatchError(ErrSameFile))

		src, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(src)).To(Equal(simpleAdd))
	})

	It("rejects files without the .vm extension", func() {
		opts := Translator{SourceFile: writeSource("Foo.txt", simpleAdd)}
		Expect(opts.Translate()).To(MatchError(ErrNotVMFile))
	})

	It("fails on a missing source", func() {
		opts := Translator{SourceFile: filepath.Join(dir, "Missing.vm")}
		err := opts.Translate()
		Expect(err).To(MatchError(os.ErrNotExist))
		Expect(filepath.Join(dir, "Missing.asm")).NotTo(BeAnExistingFile())
	})

	It("closes files only once", func() {
		opts := Translator{SourceFile: writeSource("Foo.vm", simpleAdd)}
		Expect(opts.Translate()).To(Succeed())
		opts.Close()
		Expect(opts.closers).To(BeEmpty())
	})
})

var _ = Describe("Helpers", func() {
	DescribeTable("UnitName",
		func(path, unit string) {
			Expect(UnitName(path)).To(Equal(unit))
		},
		Entry("bare name", "Foo.vm", "Foo"),
		Entry("nested path", filepath.Join("a", "b", "Main.vm"), "Main"),
		Entry("dotted directory", filepath.Join("v1.2", "Sys.vm"), "Sys"),
	)

	It("derives the output path", func() {
		Expect(OutputPath(filepath.Join("prog", "Main.vm"))).To(Equal(filepath.Join("prog", "Main.asm")))
	})

	Context("FormatStack", func() {
		BeforeEach(func() {
			color.EnableColor(false)
		})

		AfterEach(func() {
			color.EnableColor(true)
		})

		It("lists values with their addresses", func() {
			Expect(FormatStack([]int16{7, -1})).To(Equal("256: 7\n257: -1"))
		})

		It("marks an empty stack", func() {
			Expect(FormatStack(nil)).To(Equal("(empty)"))
		})
	})
})
