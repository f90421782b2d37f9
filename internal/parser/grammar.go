package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// sourceLexer tokenizes the TypeScript/ES subset the parser understands.
// Keywords are lexed separately so class and import syntax can be told
// apart from plain identifiers.
var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Template", Pattern: "`(\\\\.|[^`\\\\])*`"},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"|'(\\.|[^'\\\n])*'`},
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F]+|[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?`},
	{Name: "Keyword", Pattern: `(import|export|from|as|class|extends|implements|constructor|default)\b`},
	{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$]*`},
	{Name: "Punct", Pattern: `=>|\.\.\.|[^\s\p{L}\p{N}_$]`},
})

// program is the root of a parsed file. Anything that is not an import or a
// class is skipped token by token, with braces kept balanced.
type program struct {
	Items []*item `parser:"@@*"`
}

type item struct {
	Pos    lexer.Position
	Import *importDecl `parser:"  @@"`
	Class  *classDecl  `parser:"| @@"`
	Block  *block      `parser:"| @@"`
	Token  string      `parser:"| @~('{' | '}')"`
}

type importDecl struct {
	Pos    lexer.Position
	Clause *importClause `parser:"'import' ( @@ 'from' )?"`
	Module string        `parser:"@String ';'?"`
}

type importClause struct {
	Default   string        `parser:"( @Ident ','? )?"`
	Namespace string        `parser:"( '*' 'as' @(Ident | Keyword) )?"`
	Named     []*importSpec `parser:"( '{' ( @@ ( ',' @@ )* ','? )? '}' )?"`
}

type importSpec struct {
	Name  string `parser:"@(Ident | Keyword)"`
	Alias string `parser:"( 'as' @(Ident | Keyword) )?"`
}

type classDecl struct {
	Pos        lexer.Position
	Decorators []*decorator `parser:"@@*"`
	Export     bool         `parser:"@'export'?"`
	Default    bool         `parser:"@'default'?"`
	Abstract   bool         `parser:"@'abstract'? 'class'"`
	Name       string       `parser:"@Ident?"`
	Extends    []string     `parser:"( 'extends' @(Ident | Keyword) ( '.' @(Ident | Keyword) )* )?"`
	Heritage   []string     `parser:"( @~'{' )*"`
	Members    []*member    `parser:"'{' @@* '}'"`
}

type decorator struct {
	Pos  lexer.Position
	Name []string  `parser:"'@' @(Ident | Keyword) ( '.' @(Ident | Keyword) )*"`
	Call *callArgs `parser:"@@?"`
}

type callArgs struct {
	Open bool     `parser:"@'('"`
	Args []*value `parser:"( @@ ( ',' @@ )* ','? )? ')'"`
}

type member struct {
	Constructor *constructor `parser:"  @@"`
	Block       *block       `parser:"| @@"`
	Token       string       `parser:"| @~('{' | '}')"`
}

type constructor struct {
	Pos    lexer.Position
	Params []*param `parser:"'constructor' '(' ( @@ ( ',' @@ )* ','? )? ')'"`
	Body   *block   `parser:"@@"`
}

type param struct {
	Pos        lexer.Position
	Decorators []*decorator `parser:"@@*"`
	Modifiers  []string     `parser:"( @('public' | 'private' | 'protected' | 'readonly') )*"`
	Name       string       `parser:"@(Ident | Keyword) '?'?"`
	Type       *typeRef     `parser:"( ':' @@ )?"`
	Default    []string     `parser:"( '=' ( @~(',' | ')') )+ )?"`
}

// typeRef keeps the leading type name; generic arguments, unions and array
// suffixes are skipped
type typeRef struct {
	Parts []string `parser:"@(Ident | Keyword) ( '.' @(Ident | Keyword) )*"`
	Rest  []string `parser:"( @~(',' | ')' | '=') )*"`
}

type block struct {
	Open  bool         `parser:"@'{'"`
	Items []*blockItem `parser:"@@* '}'"`
}

type blockItem struct {
	Block *block `parser:"  @@"`
	Token string `parser:"| @~('{' | '}')"`
}

type value struct {
	Pos      lexer.Position
	String   *string    `parser:"  @String"`
	Template *string    `parser:"| @Template"`
	Number   *string    `parser:"| @( '-'? Number )"`
	Bool     *string    `parser:"| @( 'true' | 'false' )"`
	Null     *string    `parser:"| @( 'null' | 'undefined' )"`
	Array    *arrayLit  `parser:"| @@"`
	Object   *objectLit `parser:"| @@"`
	Ref      *reference `parser:"| @@"`
}

type arrayLit struct {
	Open     bool     `parser:"@'['"`
	Elements []*value `parser:"( @@ ( ',' @@ )* ','? )? ']'"`
}

type objectLit struct {
	Open       bool        `parser:"@'{'"`
	Properties []*property `parser:"( @@ ( ',' @@ )* ','? )? '}'"`
}

type property struct {
	Key   string `parser:"@(Ident | Keyword | String | Number)"`
	Value *value `parser:"( ':' @@ )?"`
}

type reference struct {
	Parts []string    `parser:"@(Ident | Keyword) ( '.' @(Ident | Keyword) )*"`
	Calls []*callArgs `parser:"@@*"`
}

func newGrammar() *participle.Parser[program] {
	return participle.MustBuild[program](
		participle.Lexer(sourceLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(1024),
	)
}
