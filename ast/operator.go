package ast

type BinaryOp string

const (
	OperatorAdd      BinaryOp = "+"
	OperatorSubtract BinaryOp = "-"
	OperatorMultiply BinaryOp = "*"
	OperatorDivide   BinaryOp = "/"
	OperatorPower    BinaryOp = "^"
)

type UnaryOp string

const (
	OperatorNegate UnaryOp = "-"
)
