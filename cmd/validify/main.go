// Command validify runs a document's typed object graph against a
// declarative validation profile and reports the result.
package main

func main() {
	Execute()
}
