//go:build js
// +build js

package main

import (
	"github.com/kwilcox/ncWMS/gui"
	"github.com/sirupsen/logrus"
)

func main() {
	p, err := gui.NewPage(gui.DefaultServer())
	if err != nil {
		logrus.Fatal(err)
	}
	p.Monitor()

	select {} // Block
}
