package hp48

// ClearMemory tells the counter unit to zero its stored count. The
// payload spells "CNFG" followed by DEL.
func ClearMemory() Command {
	return Command{frameC, frameN, frameF, frameG, frameDEL}
}
