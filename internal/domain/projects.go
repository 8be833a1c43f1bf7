package domain

// Projects lists the Apache projects covered by the LLTC4J dataset. Commands
// default to exporting all of them.
var Projects = []string{
	"ant-ivy",
	"archiva",
	"commons-bcel",
	"commons-beanutils",
	"commons-codec",
	"commons-collections",
	"commons-compress",
	"commons-configuration",
	"commons-dbcp",
	"commons-digester",
	"commons-io",
	"commons-jcs",
	"commons-lang",
	"commons-math",
	"commons-net",
	"commons-scxml",
	"commons-validator",
	"commons-vfs",
	"deltaspike",
	"eagle",
	"giraph",
	"gora",
	"jspwiki",
	"opennlp",
	"parquet-mr",
	"santuario-java",
	"systemml",
	"wss4j",
}
