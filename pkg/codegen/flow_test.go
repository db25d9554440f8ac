package codegen_test

import (
	"bytes"
	"strings"

	"github.com/Vamanan/nand2tetris2/pkg/codegen"
	"github.com/Vamanan/nand2tetris2/pkg/emulator"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sumLoop = `// sum of 1..5
push constant 0
pop local 0
push constant 5
pop local 1
label LOOP
push local 1
push constant 0
eq
if-goto DONE
push local 0
push local 1
add
pop local 0
push local 1
push constant 1
sub
pop local 1
goto LOOP
label DONE
push local 0
`

const sumRecursive = `function Sum.sum 0
push argument 0
push constant 0
eq
if-goto BASE
push argument 0
push argument 0
push constant 1
sub
call Sum.sum 1
add
return
label BASE
push constant 0
return
`

const addTwo = `function Math.add 1
push local 0
push argument 0
add
push argument 1
add
return
`

// program translates main followed by a jump over the function bodies, so
// that the machine halts when main is done
func program(main string, functions ...string) string {
	var out bytes.Buffer
	cw := codegen.NewCodeWriter(&out, codegen.WithUnit("Main"))
	translateWith(cw, main)
	out.WriteString("@HALT\n0;JMP\n")
	for _, f := range functions {
		translateWith(cw, f)
	}
	out.WriteString("(HALT)\n")
	return out.String()
}

func run(asm string, ram map[int]int16) *emulator.Machine {
	m, err := emulator.Exec(asm, emulator.WithRAM(ram), emulator.WithMaxSteps(100000))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Program flow", func() {
	It("runs a counting loop", func() {
		m := execute(sumLoop, standardRAM())
		Expect(m.Stack(stackBase)).To(Equal([]int16{15}))
		Expect(m.Peek(300)).To(Equal(int16(15)))
		Expect(m.Peek(301)).To(Equal(int16(0)))
	})

	It("falls through if-goto on zero", func() {
		m := execute("push constant 0\nif-goto SKIP\npush constant 1\nlabel SKIP\npush constant 2", standardRAM())
		Expect(m.Stack(stackBase)).To(Equal([]int16{1, 2}))
	})

	It("jumps on any non-zero value", func() {
		m := execute("push constant 3\nneg\nif-goto SKIP\npush constant 1\nlabel SKIP\npush constant 2", standardRAM())
		Expect(m.Stack(stackBase)).To(Equal([]int16{2}))
	})

	It("scopes labels to the enclosing function", func() {
		asm := translate("label TOP\nfunction F.f 0\nlabel TOP\ngoto TOP")
		Expect(asm).To(ContainSubstring("(Test$TOP)\n"))
		Expect(asm).To(ContainSubstring("(F.f$TOP)\n"))
		Expect(asm).To(ContainSubstring("@F.f$TOP\n"))
		_, err := emulator.Assemble(asm)
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Label names", func() {
	It("keeps a user label apart from comparison labels", func() {
		src := "push constant 1\npush constant 1\neq\nif-goto else0\npush constant 5\nlabel else0\npush constant 9"
		asm := translate(src)
		Expect(asm).To(ContainSubstring("(else0)\n"))
		Expect(asm).To(ContainSubstring("(Test$else0)\n"))

		m := execute(src, standardRAM())
		Expect(m.Stack(stackBase)).To(Equal([]int16{9}))
	})

	It("links units that declare the same top-level label", func() {
		var out bytes.Buffer
		cw := codegen.NewCodeWriter(&out, codegen.WithUnit("A"))
		translateWith(cw, "push constant 1\nif-goto LOOP\npush constant 2\nlabel LOOP")
		cw.SetUnit("B")
		translateWith(cw, "push constant 0\nif-goto LOOP\npush constant 3\nlabel LOOP")

		Expect(out.String()).To(ContainSubstring("(A$LOOP)\n"))
		Expect(out.String()).To(ContainSubstring("(B$LOOP)\n"))
		m := run(out.String(), standardRAM())
		Expect(m.Stack(stackBase)).To(Equal([]int16{3}))
	})

	It("rejects labels that look like return addresses", func() {
		var out bytes.Buffer
		cw := codegen.NewCodeWriter(&out, codegen.WithUnit("Main"))
		Expect(cw.WriteLabel("ret.0")).To(MatchError(codegen.ErrReservedLabel))
		Expect(out.Len()).To(BeZero())
	})
})

var _ = Describe("Functions", func() {
	It("calls and returns", func() {
		ram := standardRAM()
		m := run(program("push constant 3\npush constant 4\ncall Math.add 2", addTwo), ram)

		Expect(m.Stack(stackBase)).To(Equal([]int16{7}))
		for addr := 1; addr <= 4; addr++ {
			Expect(m.Peek(addr)).To(Equal(ram[addr]), "RAM[%d]", addr)
		}
	})

	It("zeroes the locals of a function", func() {
		ram := standardRAM()
		// garbage where the callee's locals will live
		for addr := stackBase; addr < stackBase+16; addr++ {
			ram[addr] = 99
		}
		m := run(program("push constant 3\npush constant 4\ncall Math.add 2", addTwo), ram)
		Expect(m.Stack(stackBase)).To(Equal([]int16{7}))
	})

	It("supports recursion", func() {
		m := run(program("push constant 5\ncall Sum.sum 1", sumRecursive), standardRAM())
		Expect(m.Stack(stackBase)).To(Equal([]int16{15}))
	})

	It("uses a distinct return label for every call", func() {
		asm := program("push constant 1\npush constant 2\ncall Math.add 2\npush constant 3\ncall Math.add 2", addTwo)
		Expect(strings.Count(asm, "(Main$ret.")).To(Equal(2))

		m := run(asm, standardRAM())
		Expect(m.Stack(stackBase)).To(Equal([]int16{6}))
	})

	It("bootstraps into Sys.init", func() {
		var out bytes.Buffer
		cw := codegen.NewCodeWriter(&out)
		Expect(cw.WriteInit()).To(Succeed())
		out.WriteString("@HALT\n0;JMP\n")
		translateWith(cw, "function Sys.init 0\npush constant 8\npush constant 9\ncall Math.add 2\nreturn")
		translateWith(cw, addTwo)
		out.WriteString("(HALT)\n")

		// Sys.init returns into the bootstrap frame, which holds the result at 256
		m := run(out.String(), nil)
		Expect(m.Peek(stackBase)).To(Equal(int16(17)))
	})
})
