package cpu

// The instruction set is described as (mask, pattern) pairs: an opcode
// matches an entry iff opcode&mask == pattern. At package init the two
// lists are compiled into dense 256-entry dispatch arrays, first
// matching entry winning, so the hot loop is a single index. Bytes no
// entry claims stay nil and surface as IllegalOpcode.

type handler func(*CPU) int

type op struct {
	mask    byte
	pattern byte
	fn      handler
}

// opList is ordered: exact encodings are registered before the masked
// groups that would otherwise swallow them (HALT before LD r,r').
var opList = []op{
	// Miscellaneous
	{0xFF, 0x00, (*CPU).opNop},
	{0xFF, 0x76, (*CPU).opHalt},
	{0xFF, 0x10, (*CPU).opStop},
	{0xFF, 0xF3, (*CPU).opDi},
	{0xFF, 0xFB, (*CPU).opEi},
	{0xFF, 0xCB, (*CPU).opCBPrefix},
	// 8-bit loads
	{0xC0, 0x40, (*CPU).opLdRR},
	{0xC7, 0x06, (*CPU).opLdRImm},
	{0xCF, 0x0A, (*CPU).opLdAR16Mem},
	{0xCF, 0x02, (*CPU).opLdR16MemA},
	{0xFF, 0xFA, (*CPU).opLdAImmInd},
	{0xFF, 0xEA, (*CPU).opLdImmIndA},
	{0xFF, 0xF0, (*CPU).opLdhAImmInd},
	{0xFF, 0xE0, (*CPU).opLdhImmIndA},
	{0xFF, 0xF2, (*CPU).opLdhACInd},
	{0xFF, 0xE2, (*CPU).opLdhCIndA},
	// 16-bit loads
	{0xCF, 0x01, (*CPU).opLdRRImm},
	{0xFF, 0x08, (*CPU).opLdImmIndSP},
	{0xFF, 0xF9, (*CPU).opLdSPHL},
	{0xCF, 0xC5, (*CPU).opPushRR},
	{0xCF, 0xC1, (*CPU).opPopRR},
	{0xFF, 0xF8, (*CPU).opLdHLSPe},
	// 8-bit arithmetic and logic
	{0xF8, 0x80, (*CPU).opAddR},
	{0xF8, 0x88, (*CPU).opAdcR},
	{0xF8, 0x90, (*CPU).opSubR},
	{0xF8, 0x98, (*CPU).opSbcR},
	{0xF8, 0xA0, (*CPU).opAndR},
	{0xF8, 0xA8, (*CPU).opXorR},
	{0xF8, 0xB0, (*CPU).opOrR},
	{0xF8, 0xB8, (*CPU).opCpR},
	{0xFF, 0xC6, (*CPU).opAddImm},
	{0xFF, 0xCE, (*CPU).opAdcImm},
	{0xFF, 0xD6, (*CPU).opSubImm},
	{0xFF, 0xDE, (*CPU).opSbcImm},
	{0xFF, 0xE6, (*CPU).opAndImm},
	{0xFF, 0xEE, (*CPU).opXorImm},
	{0xFF, 0xF6, (*CPU).opOrImm},
	{0xFF, 0xFE, (*CPU).opCpImm},
	{0xC7, 0x04, (*CPU).opIncR},
	{0xC7, 0x05, (*CPU).opDecR},
	{0xFF, 0x27, (*CPU).opDaa},
	{0xFF, 0x2F, (*CPU).opCpl},
	{0xFF, 0x37, (*CPU).opScf},
	{0xFF, 0x3F, (*CPU).opCcf},
	// 16-bit arithmetic
	{0xCF, 0x03, (*CPU).opIncRR},
	{0xCF, 0x0B, (*CPU).opDecRR},
	{0xCF, 0x09, (*CPU).opAddHLRR},
	{0xFF, 0xE8, (*CPU).opAddSPe},
	// Accumulator rotates
	{0xFF, 0x07, (*CPU).opRlca},
	{0xFF, 0x0F, (*CPU).opRrca},
	{0xFF, 0x17, (*CPU).opRla},
	{0xFF, 0x1F, (*CPU).opRra},
	// Control flow
	{0xFF, 0xC3, (*CPU).opJpImm},
	{0xFF, 0xE9, (*CPU).opJpHL},
	{0xE7, 0xC2, (*CPU).opJpCCImm},
	{0xFF, 0x18, (*CPU).opJrE},
	{0xE7, 0x20, (*CPU).opJrCCE},
	{0xFF, 0xCD, (*CPU).opCallImm},
	{0xE7, 0xC4, (*CPU).opCallCCImm},
	{0xFF, 0xC9, (*CPU).opRet},
	{0xE7, 0xC0, (*CPU).opRetCC},
	{0xFF, 0xD9, (*CPU).opReti},
	{0xC7, 0xC7, (*CPU).opRst},
}

// cbList covers the whole 0xCB page: rotate/shift/swap groups plus
// BIT/RES/SET. Every one of the 256 follow-up bytes is defined.
var cbList = []op{
	{0xF8, 0x00, (*CPU).opRlc},
	{0xF8, 0x08, (*CPU).opRrc},
	{0xF8, 0x10, (*CPU).opRl},
	{0xF8, 0x18, (*CPU).opRr},
	{0xF8, 0x20, (*CPU).opSla},
	{0xF8, 0x28, (*CPU).opSra},
	{0xF8, 0x30, (*CPU).opSwap},
	{0xF8, 0x38, (*CPU).opSrl},
	{0xC0, 0x40, (*CPU).opBit},
	{0xC0, 0x80, (*CPU).opRes},
	{0xC0, 0xC0, (*CPU).opSet},
}

var (
	opTable [256]handler
	cbTable [256]handler
)

func compile(list []op) [256]handler {
	var table [256]handler
	for b := 0; b < 256; b++ {
		for _, e := range list {
			if byte(b)&e.mask == e.pattern {
				table[b] = e.fn
				break
			}
		}
	}
	return table
}

func init() {
	opTable = compile(opList)
	cbTable = compile(cbList)
}
