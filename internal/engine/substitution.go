package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/validify-dev/validify/internal/model"
)

// renderErrorMessage substitutes every %name% and %N (1-based positional)
// token in template with the matching argument's value, walking the
// argument list from last to first so that a longer positional token
// like %10 is substituted before %1, which would otherwise consume its
// "%1" prefix.
func renderErrorMessage(template string, args []model.ErrorArgument) string {
	result := template
	for i := len(args); i > 0; i-- {
		arg := args[i-1]
		value := "null"
		if arg.Value != nil {
			value = fmt.Sprintf("%v", arg.Value)
		}
		result = strings.ReplaceAll(result, "%"+arg.Name+"%", value)
		result = strings.ReplaceAll(result, "%"+strconv.Itoa(i), value)
	}
	return result
}
