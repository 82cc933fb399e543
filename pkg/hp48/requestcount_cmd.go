package hp48

// RequestCount asks the counter unit to report its stored visitor
// count. The payload spells "YP3MIOF"; the reply arrives out of band
// on the unit's own display/serial side, not over IR.
func RequestCount() Command {
	return Command{frameY, frameP, frame3, frameM, frameI, frameO, frameF}
}
