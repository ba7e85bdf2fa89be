package sample

func Readme(d *example.Doc) {
	// outside the block: FooBar
	d.Example(func(out *capture.Capture) (any, error) {
		// inside the block: BarFoo
		out.Println("Hello" + " World!")
		return nil, nil
	})

	d.Example(func(out *capture.Capture) (any, error) {
		if true {
			out.Println("nested")
		}
		return 1 + 1, nil
	}, example.Wrap())

	d.Example(func(out *capture.Capture) (any, error) {
		out.Println("a } in a string")
		return nil, nil
	})

	d.SuspendingExample(func(ctx context.Context, out *capture.Capture) (any, error) {
		// a { in a comment
		return ctx.Err(), nil
	})
}
