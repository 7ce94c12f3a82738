package usx

const genesisUSX = `<?xml version="1.0" encoding="utf-8"?>
<usx version="3.0">
  <book code="GEN" style="id">Genesis test</book>
  <para style="h">Genesis</para>
  <chapter number="1" style="c" sid="GEN 1"/>
  <para style="s1">The Creation</para>
  <para style="p"><verse number="1" style="v" sid="GEN 1:1"/>In the beginning <char style="w" strong="H430">God</char> created<note caller="+" style="f"><char style="fr" closed="false">1:1 </char><char style="ft" closed="false">Or <char style="xt"><ref loc="JHN 1:1">Jn 1:1</ref></char> <char style="w" strong="G3056">Word</char></char></note> the heavens.<verse eid="GEN 1:1"/>
  <verse number="2" style="v" sid="GEN 1:2"/>The earth was empty,</para>
  <para style="s2">A Heading</para>
  <para style="q1">and darkness was on the deep.<note caller="-" style="x"><char style="xo" closed="false">1:2 </char><char style="xt" closed="false"><ref loc="JOS 3-4">Jos 3-4</ref>; <ref loc="2KI 6:31-7:20">2Ki 6:31-7:20</ref></char></note><verse eid="GEN 1:2"/></para>
  <para style="p"><verse number="3a" style="v" sid="GEN 1:3a"/>God said<verse eid="GEN 1:3a"/></para>
  <chapter eid="GEN 1"/>
  <chapter number="2" style="c" sid="GEN 2"/>
  <para style="p"><verse number="1" style="v" sid="GEN 2:1"/>Thus <char style="w" strong="H3615,H8064">finished</char>.<verse eid="GEN 2:1"/></para>
</usx>`

// styleSet is a StyleClassifier over a literal set of non-scripture styles.
type styleSet map[string]bool

func (s styleSet) IsScripture(style string) bool { return !s[style] }

var headings = styleSet{"h": true, "s1": true, "s2": true}
