package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeTransformSource() string {
	return `Rewrites one JavaScript/JSX/TypeScript/TSX source into React state hooks.

Inside component functions (capitalized name) and hook functions (use + capital, digit or end)
every top-level "let x = init" becomes "const [x, setx] = useState(init)", and every plain or
compound assignment to x in that function becomes "setx(_unique => _unique op rhs)". The
useState import is added when missing.

USE WHEN:
- Converting a plain-variable component draft into a stateful React component
- Previewing what the rewriter does to a snippet before touching files

INTERPRETING RESULTS:
- changed=false: nothing in the source qualified, the code is returned unchanged
- stats.qualifying counts component and hook functions with a block body
- Bindings declared with const or var, destructuring, several declarators, loops and
  class members are left alone
- A syntax error is reported with its line and column

RESULT FIELDS:
- code: the rewritten source
- changed, language, stats (functions, qualifying, declarations, assignments)
- diff: unified diff from the input, when changed`
}

func describeTransformFiles() string {
	return `Rewrites every JavaScript/JSX/TypeScript/TSX file under the given paths.

Files are discovered with the configured include and exclude globs and .gitignore rules.
Without write=true nothing is modified and each changed file carries a diff.

USE WHEN:
- Applying the rewrite across a component directory
- Checking which files in a project would change

INTERPRETING RESULTS:
- status: changed, unchanged or failed (with the error)
- cached=true: the result came from the cache for identical content and options
- metadata.written lists the files written when write=true

RESULT FIELDS:
- files: path, language, status, per-file counts, duration, diff
- summary: file counts per status, total declarations and assignments, P50/P95 duration`
}

func describeInspectSource() string {
	return `Lists the functions in a source and how the rewriter classifies each one.

USE WHEN:
- Explaining why a function was or was not rewritten
- Finding the state bindings a component would get

INTERPRETING RESULTS:
- role: component, hook or none, from the statically resolved name
- A function with an empty name had no static name and is never rewritten
- expression_body=true: arrow function without a block, never rewritten
- state: the top-level let bindings that would become state

RESULT FIELDS:
- name, role, location (start_line, end_line, start_col), expression_body, state`
}
