package sample

func Signatures(d *example.Doc) {
	d.Example(func(out *capture.Capture) (interface{}, error) {
		out.Println("interface")
		return nil, nil
	})

	d.Example(func(out *capture.Capture) (struct{ N int }, error) {
		return struct{ N int }{N: 1}, nil
	})

	d.Example(func(out *capture.Capture) (map[string]interface{}, error) {
		return map[string]interface{}{"k": 1}, nil
	})

	d.Block(func(out *capture.Capture) interface{} {
		return "unnamed"
	})

	d.Example(func(out *capture.Capture) (any, error) {
	})
}
