package input

type Options struct {
	JSON       bool
	Form       bool
	ReadStdin  bool
	ParamsFile string
}
