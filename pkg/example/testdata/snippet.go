package testdata

import "fmt"

func Greet(name string) {
	// MY_CODE_SNIPPET
	greeting := fmt.Sprintf("Hello %s!", name)
	fmt.Println(greeting)
	// MY_CODE_SNIPPET
}
