package main

import (
	"os"

	"horse.fit/newswash/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
