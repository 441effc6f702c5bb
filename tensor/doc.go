// Package tensor provides a small row-major float64 tensor used to carry
// posterior quantities with (chain, draw, entity, time) axes.
//
// A Dense tensor has an immutable shape. Element-wise maps return a new
// tensor of the same shape and never modify the receiver:
//
//	t, _ := tensor.New([]int{2, 100, 52}, values) // chain, draw, time
//	s := t.Map(math.Abs)
//	mean, _ := s.MeanLeading(2)                     // shape [52]
package tensor
