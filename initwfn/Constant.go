package initwfn

import G "gorgonia.org/gorgonia"

// ZeroesConfig initializes every weight to 0
type ZeroesConfig struct{}

// OnesConfig initializes every weight to 1
type OnesConfig struct{}

// ConstantConfig initializes every weight to Value
type ConstantConfig struct {
	Value float64 `yaml:"value"`
}

// NewZeroes returns an InitWFn that sets all weights to 0
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

// NewOnes returns an InitWFn that sets all weights to 1
func NewOnes() (*InitWFn, error) {
	return newInitWFn(OnesConfig{})
}

// NewConstant returns an InitWFn that sets all weights to value
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{value})
}

func (ZeroesConfig) Type() Type            { return Zeroes }
func (ZeroesConfig) Create() G.InitWFn     { return G.Zeroes() }
func (OnesConfig) Type() Type              { return Ones }
func (OnesConfig) Create() G.InitWFn       { return G.Ones() }
func (c ConstantConfig) Type() Type        { return Constant }
func (c ConstantConfig) Create() G.InitWFn { return G.ValuesOf(c.Value) }
