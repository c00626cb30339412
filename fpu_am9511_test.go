package main

import "testing"

func TestAM9511AddOperands(t *testing.T) {
	f := NewAM9511()
	f.PushOperand(2)
	f.PushOperand(3)
	f.WriteCommand(am9511CmdAdd)
	if f.TopOfStack() != 5 {
		t.Fatalf("2+3 = %v, want 5", f.TopOfStack())
	}
}

func TestAM9511SqrtNegativeSetsCarryError(t *testing.T) {
	f := NewAM9511()
	f.PushOperand(-4)
	f.WriteCommand(am9511CmdSqrt)
	if f.ReadStatus()&am9511StatusCarryErr == 0 {
		t.Fatalf("sqrt of a negative operand should set the carry/error flag")
	}
}

func TestAM9511ZeroFlagReflectsTOS(t *testing.T) {
	f := NewAM9511()
	f.PushOperand(5)
	f.PushOperand(5)
	f.WriteCommand(am9511CmdSub)
	if f.ReadStatus()&am9511StatusZero == 0 {
		t.Fatalf("5-5 should set the zero flag")
	}
}

func TestAM9511SignFlagForNegativeResult(t *testing.T) {
	f := NewAM9511()
	f.PushOperand(1)
	f.PushOperand(5)
	f.WriteCommand(am9511CmdSub)
	if f.TopOfStack() >= 0 {
		t.Fatalf("1-5 should be negative, got %v", f.TopOfStack())
	}
	if f.ReadStatus()&am9511StatusSign == 0 {
		t.Fatalf("negative result should set the sign flag")
	}
}

func TestAM9511DivByZeroSetsCarryError(t *testing.T) {
	f := NewAM9511()
	f.PushOperand(1)
	f.PushOperand(0)
	f.WriteCommand(am9511CmdDiv)
	if f.ReadStatus()&am9511StatusCarryErr == 0 {
		t.Fatalf("division by zero should set the carry/error flag")
	}
}
