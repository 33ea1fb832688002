package main

import "github.com/bankportal/portal-gateway/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
