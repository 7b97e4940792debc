// Package codetmpl is a line-oriented template engine for generating source
// code.
//
// A template is plain text in which some lines are directives and some
// literal lines carry substitution tags. Templates are parsed once into an
// immutable block tree and can then be resolved any number of times, from
// any number of goroutines, against different value sets.
//
// # Quick Start
//
//	tmpl, err := codetmpl.Parse("class /*# name */ {\n#{each fields as f\n  public $/*# f */;\n#}\n}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := tmpl.Resolve(codetmpl.TemplateData{
//	    "name":   "User",
//	    "fields": []interface{}{"id", "email"},
//	})
//
// # Substitution Tags
//
// Tags are written as /*# body */ (a # before the closing */ is allowed):
//
//	/*# name */                plain value
//	/*# name[0][key] */        indexed lookup
//	/*# json:name */           JSON encoding
//	/*# xml:name */            XML escaped text
//	/*# php:name */            PHP literal export
//	/*# join:name:, */         sequence joined with a glue string
//	/*# join-php:name:, */     sequence of exported literals joined
//
// # Directives
//
// A directive occupies a whole line; leading whitespace is ignored.
//
//	#{if <expression>
//	#{elseif <expression>
//	#{else
//	#{each <name> as <alias> [<status>]
//	#{switch <name>
//	#| case [<operator>] <value>
//	#| default
//	#}
//
// The elseif and else forms may also be written as #}{ elseif and #}{ else.
//
// Expressions compare operands with = != > >= < <= or test a name with
// ISSET and ISNOTSET. Terms are joined with "and" and "or" in conjunctive
// normal form: "and" starts a new group, so "a and b or c" means a AND (b OR
// c). A bare word on the right of an operator is a string.
//
// The status variable of an each loop is a mapping with the keys index,
// first, last and has_next.
//
// # Indentation
//
// Lines are re-indented relative to the directives enclosing them, so the
// indentation used to lay out the template source does not leak into the
// output. The indentation unit defaults to two spaces.
//
// # Engine
//
// Engine adds configuration, a template cache and file handling:
//
//	engine := codetmpl.NewWithOptions(codetmpl.WithTemplateDir("templates"))
//	out, err := engine.Render("model", data) // templates/model.template
package codetmpl
