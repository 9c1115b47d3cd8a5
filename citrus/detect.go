/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  detect.go - Funció per a detectar el tipus d'una imatge 3DS.
 */

package citrus

import (
  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

const (
  TYPE_UNK   = 0
  TYPE_NCSD  = 1
  TYPE_CIA   = 2
  TYPE_NCCH  = 3
  TYPE_ROMFS = 4
  TYPE_EXEFS = 5
)


/************/
/* FUNCIONS */
/************/

// Prova els formats en l'ordre NCSD, CIA, NCCH, RomFS i ExeFS. El
// primer que reconeix la imatge guanya. NCSD, NCCH i RomFS tenen
// número màgic; CIA i ExeFS es reconeixen per coherència de la
// capçalera. El CIA es prova just després de l'NCSD i l'ExeFS l'últim.
func Detect( acc utils.Accessor ) int {

  if ProbeNCSD ( acc ) {
    return TYPE_NCSD
  } else if ProbeCIA ( acc ) {
    return TYPE_CIA
  } else if ProbeNCCH ( acc ) {
    return TYPE_NCCH
  } else if ProbeRomFS ( acc ) {
    return TYPE_ROMFS
  } else if ProbeExeFS ( acc ) {
    return TYPE_EXEFS
  } else {
    return TYPE_UNK
  }

} // end Detect
